package graph

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
)

// GetUsersInfo resolves display identities with one $batch request. Failed
// sub-responses are dropped silently; a user that cannot be resolved just
// does not show up in the results table.
func (c *Client) GetUsersInfo(ctx context.Context, userIDs []string) ([]User, error) {
	if len(userIDs) < 1 {
		return []User{}, nil
	}

	requests := make([]batchRequestItem, 0, len(userIDs))
	for index, userID := range userIDs {
		requests = append(requests, batchRequestItem{
			ID:     strconv.Itoa(index + 1),
			Method: http.MethodGet,
			URL:    fmt.Sprintf("/users/%s?$select=id,displayName", userID),
		})
	}

	resp, err := c.postBatch(ctx, batchRequest{Requests: requests})
	if err != nil {
		return nil, err
	}

	users := make([]User, 0, len(userIDs))
	for _, item := range sortedBatchBodies(resp) {
		if item.Status != http.StatusOK || len(item.Body) < 1 {
			slog.Debug("user lookup failed in batch", slog.String("subRequestId", item.ID), slog.Int("status", item.Status))
			continue
		}

		var user User
		if err := json.Unmarshal(item.Body, &user); err != nil {
			slog.Debug("user batch body not decodable", slog.String("subRequestId", item.ID), slog.String("error", err.Error()))
			continue
		}
		if user.ID == "" {
			continue
		}
		users = append(users, user)
	}
	return users, nil
}
