// Package common holds small generic slice helpers shared by the engine packages.
package common

// First returns the first element of s and true, or the zero value and false if s is empty.
func First[S ~[]E, E any](s S) (E, bool) {
	if len(s) == 0 {
		var zero E
		return zero, false
	}

	return s[0], true
}

// Map returns a new slice holding f applied to every element of s. A nil s yields an
// empty, non-nil slice.
func Map[S ~[]E, E, R any](s S, f func(E) R) []R {
	res := make([]R, len(s))
	for i, e := range s {
		res[i] = f(e)
	}

	return res
}
