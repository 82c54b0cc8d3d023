package main

import (
	"fmt"

	"graphfacade/internal/graph"

	"github.com/spf13/cobra"
)

func newSchemaCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "schema",
		Short: "Manage node schemas",
	}

	var props []string
	create := &cobra.Command{
		Use:     "create NAME",
		Short:   "Register a node schema (no-op if it exists)",
		Example: `  graphfacade schema create Person --prop name=STRING --prop age=INT --prop born=DATE`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			keys, err := parsePropertyKeys(props)
			if err != nil {
				return err
			}
			ops, err := a.operations(cmd)
			if err != nil {
				return err
			}
			err = ops.CreateNodeSchema(cmd.Context(), &graph.CreateNodeSchemaRequest{
				Name:         args[0],
				PropertyKeys: keys,
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "node schema %s ready\n", args[0])
			return nil
		},
	}
	create.Flags().StringArrayVar(&props, "prop", nil, "property key as name=TYPE (repeatable)")

	cmd.AddCommand(create)
	return cmd
}

func newEdgeSchemaCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "edge-schema",
		Short: "Manage edge schemas",
	}

	var (
		props          []string
		source, target string
	)
	create := &cobra.Command{
		Use:     "create NAME",
		Short:   "Register an edge schema between two node schemas (no-op if it exists)",
		Example: `  graphfacade edge-schema create WORKS_AT --source Person --target Company --prop since=DATE`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			keys, err := parsePropertyKeys(props)
			if err != nil {
				return err
			}
			ops, err := a.operations(cmd)
			if err != nil {
				return err
			}
			err = ops.CreateEdgeSchema(cmd.Context(), &graph.CreateEdgeSchemaRequest{
				Name:         args[0],
				SourceSchema: source,
				TargetSchema: target,
				PropertyKeys: keys,
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "edge schema %s ready\n", args[0])
			return nil
		},
	}
	create.Flags().StringArrayVar(&props, "prop", nil, "property key as name=TYPE (repeatable)")
	create.Flags().StringVar(&source, "source", "", "source node schema")
	create.Flags().StringVar(&target, "target", "", "target node schema")
	create.MarkFlagRequired("source")
	create.MarkFlagRequired("target")

	cmd.AddCommand(create)
	return cmd
}
