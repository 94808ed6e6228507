package graph

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

// GetResponsesForPoll returns the persisted responses for a poll, restricted
// to the current user unless currentUserOnly is false (results view).
func (c *Client) GetResponsesForPoll(ctx context.Context, pollID string, currentUserOnly bool) ([]Response, error) {
	if pollID == "" || c.teamsCtx.UserObjectID == "" {
		return []Response{}, nil
	}

	schema := c.schema.Responses
	selected := strings.Join([]string{
		schema.UserIDField,
		schema.MeetingIDField,
		schema.PollIDField,
		schema.QuestionIDField,
		schema.ResponseField,
	}, ",")
	filter := fmt.Sprintf("fields/%s eq '%s'", schema.PollIDField, pollID)
	if currentUserOnly {
		filter += fmt.Sprintf(" and fields/%s eq '%s'", schema.UserIDField, c.teamsCtx.UserObjectID)
	}
	requestURL := fmt.Sprintf("%s%s/items?expand=fields(select=%s)&$filter=%s",
		c.RootURL, c.sitePath(schema.ListTitle), url.PathEscape(selected), url.PathEscape(filter))

	result, err := c.getData(ctx, requestURL, true)
	if err != nil {
		return nil, err
	}

	items := decodeListItems(result)
	responses := make([]Response, 0, len(items))
	for _, item := range items {
		if item.Fields == nil {
			continue
		}
		responses = append(responses, Response{
			ID:         item.ID,
			UserID:     item.fieldString(schema.UserIDField),
			MeetingID:  item.fieldString(schema.MeetingIDField),
			PollID:     item.fieldString(schema.PollIDField),
			QuestionID: item.fieldString(schema.QuestionIDField),
			Response:   item.fieldString(schema.ResponseField),
		})
	}
	return responses, nil
}

// PostQuestionsResponses persists one submit: creates for newResponses,
// updates for existingResponses, all in a single $batch. Partial batch
// failures are not reconciled, the next reload shows what actually stuck.
func (c *Client) PostQuestionsResponses(ctx context.Context, meetingID string, pollID string, newResponses []Response, existingResponses []Response) error {
	if meetingID == "" {
		return errors.New("graph: postQuestionsResponses requires a meetingId")
	}
	if pollID == "" {
		return errors.New("graph: postQuestionsResponses requires a pollId")
	}
	if newResponses == nil || existingResponses == nil {
		return errors.New("graph: postQuestionsResponses requires both response sets")
	}

	schema := c.schema.Responses
	jsonHeaders := map[string]string{"Content-Type": "application/json"}

	responseFields := func(response Response) map[string]interface{} {
		return map[string]interface{}{
			schema.UserIDField:     c.teamsCtx.UserObjectID,
			schema.MeetingIDField:  meetingID,
			schema.TenantIDField:   c.teamsCtx.TenantID,
			schema.QuestionIDField: response.QuestionID,
			schema.ResponseField:   response.Response,
			schema.PollIDField:     pollID,
		}
	}

	requests := make([]batchRequestItem, 0, len(newResponses)+len(existingResponses))
	for index, response := range newResponses {
		requests = append(requests, batchRequestItem{
			ID:      strconv.Itoa(index + 1),
			Method:  http.MethodPost,
			URL:     c.sitePath(schema.ListTitle) + "/items",
			Headers: jsonHeaders,
			Body:    map[string]interface{}{"fields": responseFields(response)},
		})
	}
	for index, response := range existingResponses {
		requests = append(requests, batchRequestItem{
			ID:      strconv.Itoa(len(newResponses) + index + 1),
			Method:  http.MethodPatch,
			URL:     c.sitePath(schema.ListTitle) + "/items/" + response.ID,
			Headers: jsonHeaders,
			Body:    map[string]interface{}{"fields": responseFields(response)},
		})
	}

	if len(requests) < 1 {
		return nil
	}

	_, err := c.postBatch(ctx, batchRequest{Requests: requests})
	return err
}
