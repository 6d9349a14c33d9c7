package validator

import (
	"fmt"
	"math"
)

// sprintf formats tmpl with at most as many arguments as it has verbs.
func sprintf(tmpl string, args ...any) string {
	if n := countVerbs(tmpl); n < len(args) {
		args = args[:n]
	}
	return fmt.Sprintf(tmpl, args...)
}

func countVerbs(tmpl string) int {
	n := 0
	for i := 0; i < len(tmpl); i++ {
		if tmpl[i] != '%' {
			continue
		}
		if i+1 < len(tmpl) && tmpl[i+1] == '%' {
			i++
			continue
		}
		n++
	}
	return n
}

// boundArg renders whole bounds as integers so both %d and %v templates work.
func boundArg(f float64) any {
	if f == math.Trunc(f) && math.Abs(f) < 1<<53 {
		return int64(f)
	}
	return f
}
