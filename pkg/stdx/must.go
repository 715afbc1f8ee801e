// Package stdx holds small helpers missing from the standard library.
package stdx

// Must0 panics if err is not nil. Use it for setup steps that cannot fail in
// a correctly configured program.
func Must0(err error) {
	if err != nil {
		panic(err)
	}
}

// Must1 returns v, or panics if err is not nil.
func Must1[T any](v T, err error) T {
	if err != nil {
		panic(err)
	}
	return v
}
