package router

import (
	"errors"
	"maps"
	"net/url"
	"regexp"
	"strings"
)

// DefaultConstraint is the pattern used for tokens without an explicit constraint.
const DefaultConstraint = `[a-zA-Z0-9_\+\-%]+`

// Reserved token names bound to the route target instead of params.
const (
	tokenController = "controller"
	tokenAction     = "action"
)

var tokenPattern = regexp.MustCompile(`:(\w+)`)

// Target is what a route resolves to before any token is captured.
// Tokens named "controller" and "action" override the corresponding fields.
type Target struct {
	Params     map[string]string
	Controller string
	Action     string
}

// Constraints maps a token name to the regex fragment its value must match.
type Constraints map[string]string

// Route is a single URI-matching rule.
//
// Match mutates the route: on success it overwrites Controller, Action and
// Params with the captured values. Copy the state out, or Clone the route,
// before matching it again.
type Route struct {
	pattern     *regexp.Regexp
	constraints Constraints
	target      Target
	params      map[string]string
	rule        string
	controller  string
	action      string
	tokens      []string
}

// NewRoute compiles rule into a route resolving to target.
// Returns ErrEmptyRule for an empty rule and ErrInvalidRule when the
// resulting pattern does not compile.
func NewRoute(rule string, target Target, constraints Constraints) (*Route, error) {
	if rule == "" {
		return nil, ErrEmptyRule
	}

	r := &Route{
		rule:        rule,
		target:      target,
		constraints: maps.Clone(constraints),
	}
	if r.constraints == nil {
		r.constraints = make(Constraints)
	}

	for _, m := range tokenPattern.FindAllStringSubmatch(rule, -1) {
		r.tokens = append(r.tokens, m[1])
	}

	expr := tokenPattern.ReplaceAllStringFunc(rule, r.Constraint)
	pattern, err := regexp.Compile("^" + expr + "/?$")
	if err != nil {
		return nil, errors.Join(ErrInvalidRule, err)
	}
	r.pattern = pattern
	r.reset()

	return r, nil
}

// MustNewRoute is like NewRoute but panics on error.
// Intended for static route tables.
func MustNewRoute(rule string, target Target, constraints Constraints) *Route {
	r, err := NewRoute(rule, target, constraints)
	if err != nil {
		panic(err)
	}
	return r
}

// Match reports whether uri satisfies the rule. On success the captured
// values are bound to the route's controller, action and params, in token order.
func (r *Route) Match(uri string) bool {
	m := r.pattern.FindStringSubmatch(uri)
	if m == nil {
		return false
	}

	for i, name := range r.tokens {
		if i+1 >= len(m) {
			break
		}
		value := decode(m[i+1])
		switch name {
		case tokenController:
			r.controller = value
		case tokenAction:
			r.action = value
		default:
			r.params[name] = value
		}
	}

	return true
}

// Constraint returns the capturing group used for the given token.
// A leading ":" is ignored; tokens without a constraint use DefaultConstraint.
func (r *Route) Constraint(key string) string {
	key = strings.TrimPrefix(key, ":")
	if c, ok := r.constraints[key]; ok && c != "" {
		return "(" + c + ")"
	}
	return "(" + DefaultConstraint + ")"
}

// Clone returns a copy of the route with its match state reset.
// The compiled pattern is shared.
func (r *Route) Clone() *Route {
	c := &Route{
		pattern:     r.pattern,
		constraints: r.constraints,
		target:      r.target,
		rule:        r.rule,
		tokens:      r.tokens,
	}
	c.reset()
	return c
}

// Rule returns the rule the route was built from.
func (r *Route) Rule() string { return r.rule }

// Controller returns the target controller, possibly overwritten by a match.
func (r *Route) Controller() string { return r.controller }

// Action returns the target action, possibly overwritten by a match.
func (r *Route) Action() string { return r.action }

// Params returns a copy of the route params.
func (r *Route) Params() map[string]string { return maps.Clone(r.params) }

// Tokens returns the token names in the order they appear in the rule.
func (r *Route) Tokens() []string { return append([]string(nil), r.tokens...) }

func (r *Route) reset() {
	r.controller = r.target.Controller
	r.action = r.target.Action
	r.params = maps.Clone(r.target.Params)
	if r.params == nil {
		r.params = make(map[string]string)
	}
}

func decode(s string) string {
	v, err := url.QueryUnescape(s)
	if err != nil {
		return s
	}
	return v
}
