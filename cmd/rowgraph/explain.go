package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newExplainCmd(root *rootFlags) *cobra.Command {
	var keys []string

	cmd := &cobra.Command{
		Use:   "explain <target> <column>...",
		Short: "Print the map tree built for a target and a column list",
		Long: `Print the map tree built for a target and a column list, with the
diagnostics collected on the way (unmatched, shadowed and ignored columns).

Targets: client, clients, productids, count.`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := lookupTarget(args[0])
			if err != nil {
				return err
			}

			m, err := root.materializer(cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			tree, err := m.Tree(t.typ, args[1:], keys)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprint(out, tree)

			for _, d := range tree.Diagnostics.All() {
				fmt.Fprintf(out, "%s: %s\n", d.Severity, d)
			}

			return nil
		},
	}

	cmd.Flags().StringSliceVarP(&keys, "keys", "k", nil, "Key column paths, comma separated")

	return cmd
}
