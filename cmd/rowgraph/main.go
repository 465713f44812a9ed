// Command rowgraph demonstrates the mapping engine over an in-memory SQLite database.
//
//	rowgraph demo [--format dump|json] [--select $..name] [--catalog queries.yaml]
//	rowgraph explain client --keys orders.id id name orders.id orders.status
//	rowgraph paths client --affix db2
package main

import (
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
