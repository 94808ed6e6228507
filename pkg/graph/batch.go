package graph

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sort"
	"strconv"
)

// Graph $batch envelope. Sub-request ids are caller assigned, sequential and
// numeric; sub-responses are correlated by id because their order is not
// guaranteed to match the request order.

type batchRequestItem struct {
	ID      string            `json:"id"`
	Method  string            `json:"method"`
	URL     string            `json:"url"`
	Headers map[string]string `json:"headers,omitempty"`
	Body    interface{}       `json:"body,omitempty"`
}

type batchRequest struct {
	Requests []batchRequestItem `json:"requests"`
}

type batchResponseItem struct {
	ID     string          `json:"id"`
	Status int             `json:"status"`
	Body   json.RawMessage `json:"body"`
}

type batchResponse struct {
	Responses []batchResponseItem `json:"responses"`
}

func (c *Client) postBatch(ctx context.Context, request batchRequest) (*batchResponse, error) {
	url := c.RootURL + "/$batch"
	result, err := c.postData(ctx, url, request)
	if err != nil {
		return nil, err
	}

	raw, err := json.Marshal(result)
	if err != nil {
		return nil, fmt.Errorf("graph batch response: %w", err)
	}
	var resp batchResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, fmt.Errorf("graph batch response: %w", err)
	}
	return &resp, nil
}

// sortedBatchBodies restores request order for a batch of GETs.
// Sub-responses with an unparsable id are skipped; the caller gets the
// survivors sorted by their numeric id.
func sortedBatchBodies(resp *batchResponse) []batchResponseItem {
	if resp == nil {
		return nil
	}

	items := make([]batchResponseItem, 0, len(resp.Responses))
	for _, item := range resp.Responses {
		if _, err := strconv.Atoi(item.ID); err != nil {
			slog.Warn("graph batch sub-response with unexpected id skipped", slog.String("id", item.ID))
			continue
		}
		items = append(items, item)
	}

	sort.Slice(items, func(i, j int) bool {
		a, _ := strconv.Atoi(items[i].ID)
		b, _ := strconv.Atoi(items[j].ID)
		return a < b
	})
	return items
}
