// Package graph defines the backend-neutral graph model and the Operations
// contract that adapters implement.
//
// Client code builds request records, passes them to an Operations value
// chosen at construction time, and receives Node and Edge values back from
// the get operations:
//
//	ops := memgraph.New()
//	err := ops.CreateNodeSchema(ctx, &graph.CreateNodeSchemaRequest{
//	    Name:         "Person",
//	    PropertyKeys: map[string]graph.DataType{"name": graph.String, "age": graph.Int},
//	})
//	err = ops.CreateNode(ctx, &graph.CreateNodeRequest{
//	    NodeID:     "alice",
//	    NodeSchema: "Person",
//	    Properties: graph.Properties{"name": graph.StringValue("Alice")},
//	})
//	node, err := ops.GetNode(ctx, "alice")
//
// # Errors
//
// Every failure is an *Error. Its Kind tells the caller what went wrong:
//
//   - KindInvalidArgument: a required argument was nil or empty; no backend call was made
//   - KindValidation: the request does not fit the registered schemas
//   - KindNotFound: the node or edge id does not exist
//   - KindBackend: the backend failed; Cause holds its error
//   - KindUnsupported: the adapter does not implement the operation
//
// Use errors.Is with ErrNotFound, ErrValidation, ErrUnsupported and friends,
// or KindOf.
package graph
