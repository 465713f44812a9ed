// Package diagnostic collects the non-fatal findings of building a map tree: columns that
// matched no field, columns shadowed by an earlier one, and the suggestions that may fix
// them.
package diagnostic
