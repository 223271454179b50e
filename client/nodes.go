package client

import (
	"context"
	"net/url"
	"strconv"
)

// NodeService handles node operations.
type NodeService struct {
	c *Client
}

type nodePage struct {
	Nodes   []Node `json:"nodes"`
	HasMore bool   `json:"has_more"`
}

func (o *NodeListOptions) values() url.Values {
	params := url.Values{}
	if o == nil {
		return params
	}
	if o.Type != "" {
		params.Set("type", o.Type)
	}
	setPage(params, o.Limit, o.Offset)
	return params
}

// List returns one page of nodes and whether more follow.
func (s *NodeService) List(ctx context.Context, opts *NodeListOptions) ([]Node, bool, error) {
	var page nodePage
	if err := s.c.get(ctx, "/api/v1/nodes", opts.values(), &page); err != nil {
		return nil, false, err
	}
	return page.Nodes, page.HasMore, nil
}

// Get returns a single node by ID, including its current degree.
func (s *NodeService) Get(ctx context.Context, id string) (*Node, error) {
	node := new(Node)
	if err := s.c.get(ctx, nodePath(id), nil, node); err != nil {
		return nil, err
	}
	return node, nil
}

// Create adds a node. The server assigns an ID when req.ID is empty and
// answers 409 when it is taken.
func (s *NodeService) Create(ctx context.Context, req *CreateNodeRequest) (*Node, error) {
	node := new(Node)
	if err := s.c.post(ctx, "/api/v1/nodes", req, node); err != nil {
		return nil, err
	}
	return node, nil
}

// Delete removes a node and every edge touching it.
func (s *NodeService) Delete(ctx context.Context, id string) error {
	return s.c.del(ctx, nodePath(id))
}

func nodePath(id string) string {
	return "/api/v1/nodes/" + url.PathEscape(id)
}

// setPage adds limit and offset when they are set.
func setPage(params url.Values, limit, offset int) {
	if limit > 0 {
		params.Set("limit", strconv.Itoa(limit))
	}
	if offset > 0 {
		params.Set("offset", strconv.Itoa(offset))
	}
}
