package graph

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

// odataPage is the paged Graph response envelope.
type odataPage struct {
	NextLink string            `json:"@odata.nextLink"`
	Value    []json.RawMessage `json:"value"`
}

// Collection is the combined result of following every @odata.nextLink in a
// paged response.
type Collection struct {
	Items []json.RawMessage `json:"items"`
	Count int               `json:"count"`
}

// collectAll accumulates pages starting from the already-fetched first page
// body. If the first page does not carry both a value array and a nextLink,
// the decoded body is returned unchanged. A mid-pagination error fails the
// whole operation; no partial collection is ever returned.
func (c *Client) collectAll(ctx context.Context, req Request, firstPage []byte, accessToken string) (any, error) {
	var page odataPage
	if err := json.Unmarshal(firstPage, &page); err != nil || page.Value == nil || page.NextLink == "" {
		return decodeBody(firstPage)
	}

	items := append([]json.RawMessage{}, page.Value...)

	pages := 1
	for page.NextLink != "" {
		if pages >= c.maxPages {
			return nil, fmt.Errorf("graph: pagination exceeded %d pages", c.maxPages)
		}

		data, err := c.fetchPage(ctx, req.Headers, page.NextLink, accessToken)
		if err != nil {
			return nil, err
		}

		page = odataPage{}
		if err := json.Unmarshal(data, &page); err != nil {
			return nil, fmt.Errorf("graph: decode page %d: %w", pages+1, err)
		}

		items = append(items, page.Value...)
		pages++
	}

	return Collection{Items: items, Count: len(items)}, nil
}

// fetchPage GETs an absolute nextLink URL with the bearer token and the
// original request's custom headers attached.
func (c *Client) fetchPage(ctx context.Context, headers map[string]string, link, accessToken string) ([]byte, error) {
	req := Request{Endpoint: "/", Method: http.MethodGet, Headers: headers}
	return c.fetch(ctx, req, link, accessToken)
}
