// Package names derives dotted column names from a type's shape, for composing queries
// whose result columns the graph package maps back onto the same type:
//
//	names.MustPath[store.Client]("Orders", "Products", "Name").DB2() // "Orders.Products.Name"
//
// Lists are traversed to their item type, so a path continues from a []Order field as it
// would from an Order field. Names are read from the type only; no value is involved.
package names
