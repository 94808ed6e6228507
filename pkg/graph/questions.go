package graph

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

// GetQuestionsList resolves the template's question references and fetches
// the questions with one $batch request. The batch keeps the order of the
// template's question list: sub-responses may come back permuted and are
// re-sorted by their numeric id before mapping.
func (c *Client) GetQuestionsList(ctx context.Context, templateID string) ([]Question, error) {
	template, err := c.getTemplateByID(ctx, templateID)
	if err != nil {
		return nil, err
	}
	if template == nil || len(template.QuestionsIDs) < 1 {
		return []Question{}, nil
	}

	schema := c.schema.Questions
	selected := strings.Join([]string{schema.TitleField, schema.TypeField, schema.IsRequiredField}, ",")

	requests := make([]batchRequestItem, 0, len(template.QuestionsIDs))
	for index, questionID := range template.QuestionsIDs {
		requests = append(requests, batchRequestItem{
			ID:     strconv.Itoa(index + 1),
			Method: http.MethodGet,
			URL:    fmt.Sprintf("%s/items/%s?expand=fields(select=%s)", c.sitePath(schema.ListTitle), questionID, url.PathEscape(selected)),
		})
	}

	resp, err := c.postBatch(ctx, batchRequest{Requests: requests})
	if err != nil {
		return nil, err
	}

	questions := make([]Question, 0, len(template.QuestionsIDs))
	for _, item := range sortedBatchBodies(resp) {
		if item.Status != http.StatusOK || len(item.Body) < 1 {
			slog.Warn("question lookup failed in batch", slog.String("subRequestId", item.ID), slog.Int("status", item.Status))
			continue
		}

		var raw map[string]interface{}
		if err := json.Unmarshal(item.Body, &raw); err != nil {
			slog.Warn("question batch body not decodable", slog.String("subRequestId", item.ID), slog.String("error", err.Error()))
			continue
		}

		li := decodeListItem(raw)
		questions = append(questions, Question{
			ID:         li.ID,
			Title:      li.fieldString(schema.TitleField),
			Type:       questionTypeFromListValue(li.fieldString(schema.TypeField)),
			IsRequired: li.fieldBool(schema.IsRequiredField),
		})
	}
	return questions, nil
}
