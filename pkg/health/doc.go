// Package health provides HTTP handlers for liveness and readiness probes.
//
// [LivenessHandler] always answers OK while the process runs.
// [ReadinessHandler] runs a set of named [Checks] in parallel under a
// timeout and answers 503 when any of them fails:
//
//	r.Get("/health/live", health.LivenessHandler())
//	r.Get("/health/ready", health.ReadinessHandler(health.Checks{
//	    "db":    db.Healthcheck(adapter),
//	    "redis": redis.Healthcheck(client),
//	}, health.WithLogger(log)))
//
// Responses are plain text ("OK" / "Service Unavailable") unless the client
// asks for JSON with Accept: application/json or ?format=json:
//
//	{
//	  "status": "unhealthy",
//	  "checks": {
//	    "db":    {"status": "healthy"},
//	    "redis": {"status": "unhealthy", "error": "connection refused"}
//	  }
//	}
//
// The llama application mounts both handlers on its chi mux in front of
// controller dispatch; see WithHealthChecks.
package health
