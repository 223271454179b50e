package client

import (
	"context"
	"net/url"
	"strings"
)

// EdgeService handles edge operations.
type EdgeService struct {
	c *Client
}

type edgePage struct {
	Edges   []Edge `json:"edges"`
	HasMore bool   `json:"has_more"`
}

func (o *EdgeListOptions) values() url.Values {
	params := url.Values{}
	if o == nil {
		return params
	}
	if o.Node != "" {
		params.Set("node", o.Node)
	}
	if o.Relation != "" {
		params.Set("relation", o.Relation)
	}
	setPage(params, o.Limit, o.Offset)
	return params
}

// List returns one page of edges and whether more follow.
func (s *EdgeService) List(ctx context.Context, opts *EdgeListOptions) ([]Edge, bool, error) {
	var page edgePage
	if err := s.c.get(ctx, "/api/v1/edges", opts.values(), &page); err != nil {
		return nil, false, err
	}
	return page.Edges, page.HasMore, nil
}

// Create connects two existing nodes. A second edge between the same pair
// needs a different relation.
func (s *EdgeService) Create(ctx context.Context, req *CreateEdgeRequest) (*Edge, error) {
	edge := new(Edge)
	if err := s.c.post(ctx, "/api/v1/edges", req, edge); err != nil {
		return nil, err
	}
	return edge, nil
}

// Delete removes the edge identified by its endpoints and relation.
func (s *EdgeService) Delete(ctx context.Context, source, target, relation string) error {
	return s.c.del(ctx, edgePath(source, target, relation))
}

func edgePath(parts ...string) string {
	escaped := make([]string, len(parts))
	for i, p := range parts {
		escaped[i] = url.PathEscape(p)
	}
	return "/api/v1/edges/" + strings.Join(escaped, "/")
}
