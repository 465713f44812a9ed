// Package mapping parses column names into paths and groups them by their leading
// segment.
//
// # Path Syntax
//
// A column name is a '.' separated path from the mapped type down to a scalar field:
//   - Simple fields: "Name"
//   - Nested fields: "Customer.Name"
//   - Fields of list elements: "Orders.Products.Value"
//
// Segments are compared case-insensitively, so paths are kept lower-cased next to the
// column name the source reported.
package mapping
