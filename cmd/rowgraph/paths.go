package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"rowgraph/names"
)

func newPathsCmd() *cobra.Command {
	var (
		affix string
		snake bool
	)

	cmd := &cobra.Command{
		Use:   "paths <target>",
		Short: "Print every column path a target can be populated through",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := lookupTarget(args[0])
			if err != nil {
				return err
			}

			a, err := names.ParseAffix(affix)
			if err != nil {
				return err
			}

			var opts []names.Option
			if snake {
				opts = append(opts, names.WithSnakeCase())
			}

			for _, name := range names.New(opts...).Paths(t.typ) {
				fmt.Fprintln(cmd.OutOrStdout(), name.Affixed(a))
			}

			return nil
		},
	}

	cmd.Flags().StringVarP(&affix, "affix", "a", "none", "Quoting: none, sql or db2")
	cmd.Flags().BoolVar(&snake, "snake", false, "Render untagged field names in snake_case")

	return cmd
}
