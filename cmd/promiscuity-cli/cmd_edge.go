package main

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/persistorai/promiscuity/client"
)

func newEdgeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "edge",
		Short: "Manage edges",
	}
	cmd.AddCommand(edgeCreateCmd())
	cmd.AddCommand(edgeListCmd())
	cmd.AddCommand(edgeDeleteCmd())
	return cmd
}

func edgeCreateCmd() *cobra.Command {
	var relation, propsJSON string
	cmd := &cobra.Command{
		Use:   "create <source> <target>",
		Short: "Create an edge",
		Args:  cobra.ExactArgs(2),
		Run: func(cmd *cobra.Command, args []string) {
			req := &client.CreateEdgeRequest{
				Source:   args[0],
				Target:   args[1],
				Relation: relation,
			}
			if propsJSON != "" {
				if err := json.Unmarshal([]byte(propsJSON), &req.Properties); err != nil {
					fatal("parse props", err)
				}
			}
			edge, err := apiClient.Edges.Create(context.Background(), req)
			if err != nil {
				fatal("create edge", err)
			}
			output(edge, fmt.Sprintf("%s->%s", edge.Source, edge.Target))
		},
	}
	cmd.Flags().StringVar(&relation, "relation", "", "Relation type")
	cmd.Flags().StringVar(&propsJSON, "props", "", "Properties as JSON")
	_ = cmd.MarkFlagRequired("relation")
	return cmd
}

func edgeListCmd() *cobra.Command {
	var node, relation string
	var limit, offset int
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List edges",
		Run: func(cmd *cobra.Command, args []string) {
			opts := &client.EdgeListOptions{
				Node:     node,
				Relation: relation,
				Limit:    limit,
				Offset:   offset,
			}
			edges, _, err := apiClient.Edges.List(context.Background(), opts)
			if err != nil {
				fatal("list edges", err)
			}
			switch flagFmt {
			case "table":
				headers := []string{"SOURCE", "TARGET", "RELATION"}
				var rows [][]string
				for _, e := range edges {
					rows = append(rows, []string{e.Source, e.Target, e.Relation})
				}
				formatTable(headers, rows)
			case "quiet":
				for _, e := range edges {
					fmt.Printf("%s->%s:%s\n", e.Source, e.Target, e.Relation)
				}
			default:
				formatJSON(edges)
			}
		},
	}
	cmd.Flags().StringVar(&node, "node", "", "Filter by either endpoint")
	cmd.Flags().StringVar(&relation, "relation", "", "Filter by relation")
	cmd.Flags().IntVar(&limit, "limit", 0, "Max results")
	cmd.Flags().IntVar(&offset, "offset", 0, "Offset")
	return cmd
}

func edgeDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <source> <target> <relation>",
		Short: "Delete an edge",
		Args:  cobra.ExactArgs(3),
		Run: func(cmd *cobra.Command, args []string) {
			if err := apiClient.Edges.Delete(context.Background(), args[0], args[1], args[2]); err != nil {
				fatal("delete edge", err)
			}
			fmt.Println("deleted")
		},
	}
}
