package graph

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/meetings-survey/survey-backend/pkg/surveyconfig"
)

const defaultRootURL = "https://graph.microsoft.com/v1.0"

// preferHeaderValue allows $filter on non-indexed SharePoint columns.
const preferHeaderValue = "HonorNonIndexedQueriesWarningMayFailRandomly"

// Client is the sole mediator between domain operations and the Graph list
// store. A client is built per request from the caller's access token and
// Teams context; it holds no state beyond those.
type Client struct {
	accessToken string
	teamsCtx    TeamsContext
	schema      *surveyconfig.Config

	// RootURL overrides the Graph endpoint, used in tests.
	RootURL string

	httpClient *http.Client
}

func NewClient(accessToken string, teamsCtx TeamsContext, schema *surveyconfig.Config, timeout time.Duration) (*Client, error) {
	if accessToken == "" {
		return nil, errors.New("graph: empty access token")
	}
	if schema == nil {
		return nil, errors.New("graph: missing survey configuration")
	}

	return &Client{
		accessToken: accessToken,
		teamsCtx:    teamsCtx,
		schema:      schema,
		RootURL:     defaultRootURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}, nil
}

// sitePath is the site-addressed list prefix shared by all list requests,
// e.g. /sites/contoso.sharepoint.com:/sites/surveys:/lists/Polls.
func (c *Client) sitePath(listTitle string) string {
	return fmt.Sprintf("/sites/%s:%s:/lists/%s", c.schema.SiteDomain, c.schema.ServerRelativePath, listTitle)
}

func (c *Client) getData(ctx context.Context, url string, needPreferHeader bool) (map[string]interface{}, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("graph request to %s: %w", url, err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.accessToken)
	if needPreferHeader {
		req.Header.Set("Prefer", preferHeaderValue)
	}

	return c.doRequest(req, url)
}

func (c *Client) postData(ctx context.Context, url string, payload interface{}) (map[string]interface{}, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("graph request to %s: %w", url, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(body))
	if err != nil {
		return nil, fmt.Errorf("graph request to %s: %w", url, err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.accessToken)

	return c.doRequest(req, url)
}

func (c *Client) doRequest(req *http.Request, url string) (map[string]interface{}, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("graph request to %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, upstreamError(resp, url)
	}

	if resp.StatusCode == http.StatusNoContent {
		return nil, nil
	}

	var result map[string]interface{}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("graph response from %s: %w", url, err)
	}
	return result, nil
}

// upstreamError surfaces the error message Graph puts into its error
// envelope, so the user sees what the store complained about.
func upstreamError(resp *http.Response, url string) error {
	var errBody struct {
		Error struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&errBody); err == nil && errBody.Error.Message != "" {
		return fmt.Errorf("graph request to %s failed: %s", url, errBody.Error.Message)
	}
	return fmt.Errorf("graph request to %s failed with status %d", url, resp.StatusCode)
}
