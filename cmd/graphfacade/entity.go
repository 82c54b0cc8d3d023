package main

import (
	"fmt"

	"graphfacade/internal/graph"
	"graphfacade/internal/storage"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

func newNodeCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "node",
		Short: "Create and fetch nodes",
	}

	var (
		id, schema string
		props      []string
	)
	create := &cobra.Command{
		Use:     "create",
		Short:   "Create a node of a registered schema",
		Example: `  graphfacade node create --schema Person --id alice --prop name=Alice --prop age:INT=30`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			properties, err := parseProperties(props)
			if err != nil {
				return err
			}
			if id == "" {
				id = uuid.NewString()
			}
			ops, err := a.operations(cmd)
			if err != nil {
				return err
			}
			err = ops.CreateNode(cmd.Context(), &graph.CreateNodeRequest{
				NodeID:     id,
				NodeSchema: schema,
				Properties: properties,
			})
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), id)
			return nil
		},
	}
	create.Flags().StringVar(&id, "id", "", "node id (a UUID is generated when empty)")
	create.Flags().StringVar(&schema, "schema", "", "node schema")
	create.Flags().StringArrayVar(&props, "prop", nil, "property as name=value or name:TYPE=value (repeatable)")
	create.MarkFlagRequired("schema")

	get := &cobra.Command{
		Use:   "get ID",
		Short: "Fetch a node and print it as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ops, err := a.operations(cmd)
			if err != nil {
				return err
			}
			node, err := ops.GetNode(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return storage.NewJSONLEmitter(cmd.OutOrStdout()).EmitNode(node)
		},
	}

	cmd.AddCommand(create, get)
	return cmd
}

func newEdgeCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "edge",
		Short: "Create and fetch edges",
	}

	var (
		id, schema, source, target string
		props                      []string
	)
	create := &cobra.Command{
		Use:     "create",
		Short:   "Create an edge of a registered schema between two nodes",
		Example: `  graphfacade edge create --schema WORKS_AT --source alice --target acme --prop since:DATE=2020-01-02T00:00:00Z`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			properties, err := parseProperties(props)
			if err != nil {
				return err
			}
			if id == "" {
				id = uuid.NewString()
			}
			ops, err := a.operations(cmd)
			if err != nil {
				return err
			}
			err = ops.CreateEdge(cmd.Context(), &graph.CreateEdgeRequest{
				EdgeID:     id,
				EdgeSchema: schema,
				SourceID:   source,
				TargetID:   target,
				Properties: properties,
			})
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), id)
			return nil
		},
	}
	create.Flags().StringVar(&id, "id", "", "edge id (a UUID is generated when empty)")
	create.Flags().StringVar(&schema, "schema", "", "edge schema")
	create.Flags().StringVar(&source, "source", "", "source node id")
	create.Flags().StringVar(&target, "target", "", "target node id")
	create.Flags().StringArrayVar(&props, "prop", nil, "property as name=value or name:TYPE=value (repeatable)")
	create.MarkFlagRequired("schema")
	create.MarkFlagRequired("source")
	create.MarkFlagRequired("target")

	get := &cobra.Command{
		Use:   "get ID",
		Short: "Fetch an edge and print it as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ops, err := a.operations(cmd)
			if err != nil {
				return err
			}
			edge, err := ops.GetEdge(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return storage.NewJSONLEmitter(cmd.OutOrStdout()).EmitEdge(edge)
		},
	}

	cmd.AddCommand(create, get)
	return cmd
}
