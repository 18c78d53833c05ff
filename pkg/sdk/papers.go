package sdk

import (
	"context"
	"net/http"
	"net/url"
)

// GetPaper retrieves one paper by arXiv identifier. Any surface form works
// (versioned id, abs/pdf URL, old-style slashed id); they all resolve to
// the same canonical record.
func (c *Client) GetPaper(ctx context.Context, id string) (Paper, error) {
	var out Paper
	err := c.do(ctx, "get_paper", http.MethodGet,
		"/api/v1/papers/"+url.PathEscape(id), nil, nil, &out)
	if err != nil {
		return Paper{}, err
	}
	return out, nil
}

// ListPapers returns one filtered catalog page, newest first unless the
// request sorts by citations.
func (c *Client) ListPapers(ctx context.Context, req ListRequest) (PaperList, error) {
	var out PaperList
	err := c.do(ctx, "list_papers", http.MethodGet,
		"/api/v1/papers", req.query(), nil, &out)
	if err != nil {
		return PaperList{}, err
	}
	return out, nil
}
