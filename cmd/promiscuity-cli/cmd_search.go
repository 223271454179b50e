package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/persistorai/promiscuity/client"
)

type scoreFunc func(ctx context.Context, source, tail string, k int) (*client.ScoreResponse, error)

// newSearchCmds builds the three score commands and the paths command.
func newSearchCmds() []*cobra.Command {
	return []*cobra.Command{
		scoreCmd("score", "Best-first promiscuity score", func(ctx context.Context, s, t string, k int) (*client.ScoreResponse, error) {
			return apiClient.Promiscuity.Score(ctx, s, t, k)
		}),
		scoreCmd("dfs-score", "Depth-first promiscuity score", func(ctx context.Context, s, t string, k int) (*client.ScoreResponse, error) {
			return apiClient.Promiscuity.DFSScore(ctx, s, t, k)
		}),
		scoreCmd("naive-score", "Exhaustive promiscuity score, -1 when no walk exists", func(ctx context.Context, s, t string, k int) (*client.ScoreResponse, error) {
			return apiClient.Promiscuity.NaiveScore(ctx, s, t, k)
		}),
		pathsCmd(),
	}
}

func scoreCmd(use, short string, fn scoreFunc) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <source> <tail> <k>",
		Short: short,
		Args:  cobra.ExactArgs(3),
		Run: func(cmd *cobra.Command, args []string) {
			k, err := parseHops(args[2])
			if err != nil {
				fatal("parse k", err)
			}
			resp, err := fn(context.Background(), args[0], args[1], k)
			if err != nil {
				fatal(use, err)
			}
			printScores(resp)
		},
	}
}

func pathsCmd() *cobra.Command {
	var n int
	cmd := &cobra.Command{
		Use:   "paths <source> <tail> <k>",
		Short: "Rank the n least promiscuous walks",
		Args:  cobra.ExactArgs(3),
		Run: func(cmd *cobra.Command, args []string) {
			k, err := parseHops(args[2])
			if err != nil {
				fatal("parse k", err)
			}
			resp, err := apiClient.Promiscuity.Paths(context.Background(), args[0], args[1], k, n)
			if err != nil {
				fatal("paths", err)
			}
			printPaths(resp)
		},
	}
	cmd.Flags().IntVarP(&n, "count", "n", 10, "Number of paths to return")
	return cmd
}

func parseHops(s string) (int, error) {
	k, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("k must be an integer, got %q", s)
	}
	if k <= 0 {
		return 0, fmt.Errorf("k must be positive, got %d", k)
	}
	return k, nil
}
