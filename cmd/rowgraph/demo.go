package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/davecgh/go-spew/spew"
	"github.com/ohler55/ojg/jp"
	"github.com/ohler55/ojg/oj"
	"github.com/spf13/cobra"
)

type demoFlags struct {
	format   string
	selector string
	catalog  string
}

var dumper = spew.ConfigState{
	Indent:                  "  ",
	DisablePointerAddresses: true,
	DisableCapacities:       true,
	SortKeys:                true,
}

func newDemoCmd(root *rootFlags) *cobra.Command {
	flags := &demoFlags{}

	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Run the query catalog against a seeded in-memory database",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runDemo(cmd, root, flags)
		},
	}

	cmd.Flags().StringVarP(&flags.format, "format", "f", "dump", "Output format: dump or json")
	cmd.Flags().StringVarP(&flags.selector, "select", "s", "", "JSONPath applied to each result (json format only)")
	cmd.Flags().StringVarP(&flags.catalog, "catalog", "c", "", "Path to a YAML query catalog")

	return cmd
}

func runDemo(cmd *cobra.Command, root *rootFlags, flags *demoFlags) error {
	render, err := renderer(flags.format, flags.selector)
	if err != nil {
		return err
	}

	cat, err := loadCatalog(flags.catalog)
	if err != nil {
		return err
	}

	m, err := root.materializer(cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	ctx := cmd.Context()

	db, err := openDemoDB(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	out := cmd.OutOrStdout()

	for _, q := range cat.Queries {
		t, err := lookupTarget(q.Target)
		if err != nil {
			return err
		}

		v, err := t.query(ctx, m, db, q.SQL, q.Args, q.Keys)
		if err != nil {
			return fmt.Errorf("query %q: %w", q.Name, err)
		}

		fmt.Fprintf(out, "== %s (%s)\n", q.Name, t.typ)

		if err := render(out, v); err != nil {
			return fmt.Errorf("query %q: %w", q.Name, err)
		}
	}

	return nil
}

func renderer(format, selector string) (func(io.Writer, any) error, error) {
	switch format {
	case "dump":
		if selector != "" {
			return nil, errors.New("--select needs --format json")
		}

		return func(w io.Writer, v any) error {
			dumper.Fdump(w, v)
			return nil
		}, nil

	case "json":
		var x jp.Expr

		if selector != "" {
			var err error

			x, err = jp.ParseString(selector)
			if err != nil {
				return nil, fmt.Errorf("invalid jsonpath '%s': %w", selector, err)
			}
		}

		return func(w io.Writer, v any) error {
			data, err := toJSONTree(v)
			if err != nil {
				return err
			}

			if x != nil {
				data = x.Get(data)
			}

			_, err = fmt.Fprintln(w, oj.JSON(data, &oj.Options{Indent: 2, Sort: true}))

			return err
		}, nil
	}

	return nil, fmt.Errorf("unknown format %q, expected dump or json", format)
}

// toJSONTree converts v into generic maps and slices, honoring the json.Marshaler and
// encoding.TextMarshaler implementations of decimals, times and enums.
func toJSONTree(v any) (any, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to encode result: %w", err)
	}

	return oj.Parse(raw)
}
