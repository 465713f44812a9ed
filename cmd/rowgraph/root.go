package main

import (
	"fmt"
	"io"
	"log"

	"github.com/spf13/cobra"

	"rowgraph/graph"
	"rowgraph/options"
)

type rootFlags struct {
	verbose     bool
	optionsPath string
}

func newRootCmd() *cobra.Command {
	flags := &rootFlags{}

	cmd := &cobra.Command{
		Use:   "rowgraph",
		Short: "Materialize nested objects from flat query results",
		Long: `rowgraph maps query results whose columns are named with dotted paths
(orders.products.name) onto nested Go types, merging rows that share key columns.

Examples:
  rowgraph demo
  rowgraph demo --format json --select '$..products[*].name'
  rowgraph explain client --keys orders.id id name orders.id orders.status
  rowgraph paths client --affix sql`,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().BoolVarP(&flags.verbose, "verbose", "v", false, "Log map tree diagnostics to stderr")
	cmd.PersistentFlags().StringVar(&flags.optionsPath, "options", "", "Path to a YAML options file")

	cmd.AddCommand(newDemoCmd(flags), newExplainCmd(flags), newPathsCmd())

	return cmd
}

// materializer builds a Materializer from the options file, if any, logging to the
// command's error stream under --verbose.
func (f *rootFlags) materializer(stderr io.Writer) (*graph.Materializer, error) {
	o := options.Default()

	if f.optionsPath != "" {
		loaded, err := options.LoadFile(f.optionsPath)
		if err != nil {
			return nil, err
		}

		o = loaded
	}

	if f.verbose {
		o = o.With(options.WithLogger(log.New(stderr, "rowgraph: ", 0)))
	}

	return graph.NewWithOptions(o), nil
}

func lookupTarget(name string) (target, error) {
	t, ok := targets[name]
	if !ok {
		return target{}, fmt.Errorf("unknown target %q, expected one of %s", name, targetNames())
	}

	return t, nil
}
