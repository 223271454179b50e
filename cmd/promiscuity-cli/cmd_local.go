package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"

	"github.com/persistorai/promiscuity/client"
	"github.com/persistorai/promiscuity/internal/graph"
	"github.com/persistorai/promiscuity/internal/promiscuity"
)

// localFlags are shared by the offline subcommands.
type localFlags struct {
	maxDequeues int
	timeout     time.Duration
}

func (f *localFlags) register(cmd *cobra.Command) {
	cmd.Flags().IntVar(&f.maxDequeues, "max-dequeues", 0, "Abort after this many frontier pops (0 = unlimited)")
	cmd.Flags().DurationVar(&f.timeout, "timeout", 0, "Abort after this long (0 = no limit)")
}

func (f *localFlags) options() []promiscuity.Option {
	if f.maxDequeues <= 0 {
		return nil
	}
	return []promiscuity.Option{promiscuity.WithMaxDequeues(f.maxDequeues)}
}

// searchContext returns a context cancelled on interrupt or after the timeout.
func (f *localFlags) searchContext() (context.Context, context.CancelFunc) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	if f.timeout <= 0 {
		return ctx, stop
	}
	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	return ctx, func() {
		cancel()
		stop()
	}
}

func newLocalCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "local",
		Short: "Search a YAML graph file without a server",
		Long: `Run the searches against a graph described in YAML:

  nodes: [lonely]
  edges:
    - [source, hub]
    - [hub, tail, binds]`,
	}
	cmd.AddCommand(localScoreCmd())
	cmd.AddCommand(localPathsCmd())
	return cmd
}

func localScoreCmd() *cobra.Command {
	var flags localFlags
	var algorithm string
	cmd := &cobra.Command{
		Use:   "score <graph.yaml> <source> <tail> <k>",
		Short: "Compute a promiscuity score from a graph file",
		Args:  cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			alg, err := promiscuity.ParseAlgorithm(algorithm)
			if err != nil {
				return err
			}
			k, err := parseHops(args[3])
			if err != nil {
				return err
			}
			g, err := loadLocalGraph(args[0], args[1], args[2])
			if err != nil {
				return err
			}

			ctx, cancel := flags.searchContext()
			defer cancel()

			start := time.Now()
			score, err := promiscuity.Search(ctx, alg, g, args[1], args[2], k, flags.options()...)
			if err != nil {
				return fmt.Errorf("%s search: %w", alg, err)
			}
			printScores(localScoreResponse(alg, score, time.Since(start)))
			return nil
		},
	}
	cmd.Flags().StringVarP(&algorithm, "algorithm", "a", string(promiscuity.AlgorithmBestFirst), "best_first|depth_first|exhaustive")
	flags.register(cmd)
	return cmd
}

func localPathsCmd() *cobra.Command {
	var flags localFlags
	var n int
	cmd := &cobra.Command{
		Use:   "paths <graph.yaml> <source> <tail> <k>",
		Short: "Rank the n least promiscuous walks in a graph file",
		Args:  cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			k, err := parseHops(args[3])
			if err != nil {
				return err
			}
			g, err := loadLocalGraph(args[0], args[1], args[2])
			if err != nil {
				return err
			}

			ctx, cancel := flags.searchContext()
			defer cancel()

			start := time.Now()
			paths, stats, err := promiscuity.TopPaths(ctx, g, args[1], args[2], k, n, flags.options()...)
			if err != nil {
				return fmt.Errorf("top paths: %w", err)
			}
			printPaths(localPathsResponse(paths, stats, time.Since(start)))
			return nil
		},
	}
	cmd.Flags().IntVarP(&n, "count", "n", 10, "Number of paths to return")
	flags.register(cmd)
	return cmd
}

func loadLocalGraph(path string, ids ...string) (*graph.Memory, error) {
	g, err := graph.LoadFile(path)
	if err != nil {
		return nil, err
	}
	for _, id := range ids {
		if !g.Has(id) {
			return nil, fmt.Errorf("node %q not in %s", id, path)
		}
	}
	return g, nil
}

// localScoreResponse shapes a score like the server does, including the
// exhaustive search's -1 record.
func localScoreResponse(alg promiscuity.Algorithm, s promiscuity.Score, took time.Duration) *client.ScoreResponse {
	resp := &client.ScoreResponse{
		Results: []client.ScoreResult{},
		Stats:   localStats(string(alg), s.Stats, took),
	}
	switch {
	case s.Found:
		resp.Results = append(resp.Results, client.ScoreResult{Score: s.Value, Found: true})
	case alg == promiscuity.AlgorithmExhaustive:
		resp.Results = append(resp.Results, client.ScoreResult{Score: -1})
	}
	return resp
}

func localPathsResponse(paths []promiscuity.Path[string, graph.Edge], stats promiscuity.Stats, took time.Duration) *client.PathsResponse {
	resp := &client.PathsResponse{
		Results: make([]client.PathResult, 0, len(paths)),
		Stats:   localStats("top_paths", stats, took),
	}
	for _, p := range paths {
		edges := make([]client.Edge, len(p.Edges))
		for i, e := range p.Edges {
			edges[i] = client.Edge{Source: e.Source, Target: e.Target, Relation: e.Relation}
		}
		resp.Results = append(resp.Results, client.PathResult{
			Score: p.Score,
			Path:  client.PathRecord{Nodes: p.Nodes, Edges: edges},
		})
	}
	return resp
}

func localStats(alg string, s promiscuity.Stats, took time.Duration) client.SearchStats {
	return client.SearchStats{
		Algorithm:  alg,
		Dequeued:   s.Dequeued,
		Expanded:   s.Expanded,
		DurationMS: float64(took.Microseconds()) / 1000,
	}
}
