package metas

import (
	"context"
	"net/http"
)

// GetBases fetches the reference catalog. It is issued exactly once per call;
// callers decide what to do with a failure.
func (c *Client) GetBases(ctx context.Context) (*Bases, error) {
	var bases Bases
	if err := c.do(ctx, http.MethodGet, "/bases/", "bases", nil, &bases); err != nil {
		return nil, err
	}
	return &bases, nil
}
