package client

import (
	"context"
	"net/url"
	"strconv"
)

// PromiscuityService runs promiscuity searches.
type PromiscuityService struct {
	c *Client
}

func searchParams(source, tail string, k int) url.Values {
	return url.Values{
		"source": {source},
		"tail":   {tail},
		"k":      {strconv.Itoa(k)},
	}
}

func (s *PromiscuityService) score(ctx context.Context, endpoint, source, tail string, k int) (*ScoreResponse, error) {
	var resp ScoreResponse
	if err := s.c.get(ctx, "/api/v1/promiscuity/"+endpoint, searchParams(source, tail, k), &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Score returns the lowest promiscuity score over walks of k intermediate
// nodes from source to tail, found by best-first search. Results is empty
// when no such walk exists.
func (s *PromiscuityService) Score(ctx context.Context, source, tail string, k int) (*ScoreResponse, error) {
	return s.score(ctx, "score", source, tail, k)
}

// DFSScore is Score computed by depth-first search.
func (s *PromiscuityService) DFSScore(ctx context.Context, source, tail string, k int) (*ScoreResponse, error) {
	return s.score(ctx, "dfs-score", source, tail, k)
}

// NaiveScore is Score computed by exhaustive search. It always returns one
// record; Found is false and Score is -1 when no walk exists.
func (s *PromiscuityService) NaiveScore(ctx context.Context, source, tail string, k int) (*ScoreResponse, error) {
	return s.score(ctx, "naive-score", source, tail, k)
}

// Paths returns up to n walks from source to tail in ascending score order.
func (s *PromiscuityService) Paths(ctx context.Context, source, tail string, k, n int) (*PathsResponse, error) {
	params := searchParams(source, tail, k)
	params.Set("n", strconv.Itoa(n))

	var resp PathsResponse
	if err := s.c.get(ctx, "/api/v1/promiscuity/paths", params, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
