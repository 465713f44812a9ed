// Package match compares column segments with struct field names: loose identifier
// normalization, snake_case rendering and edit-distance suggestions for columns that
// matched no field.
package match
