package graph

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// GetMeetingTabID finds the chat tab whose display name starts with the
// given prefix. Returns an empty id when no such tab exists; the chat
// message then simply carries no deep link.
func (c *Client) GetMeetingTabID(ctx context.Context, tabNamePrefix string) (string, error) {
	requestURL := fmt.Sprintf("%s/chats/%s/tabs", c.RootURL, c.teamsCtx.ChatID)

	result, err := c.getData(ctx, requestURL, true)
	if err != nil {
		return "", err
	}

	values, ok := result["value"].([]interface{})
	if !ok {
		return "", nil
	}
	for _, value := range values {
		tab, ok := value.(map[string]interface{})
		if !ok {
			continue
		}
		displayName, _ := tab["displayName"].(string)
		if !strings.HasPrefix(displayName, tabNamePrefix) {
			continue
		}
		if id, ok := tab["id"].(string); ok && id != "" {
			return id, nil
		}
	}
	return "", nil
}

// PostChatMessage announces the launched survey in the meeting chat with a
// thumbnail card, deep-linking to the tab when its id is known.
func (c *Client) PostChatMessage(ctx context.Context, tabID string, tabName string) error {
	requestURL := fmt.Sprintf("%s/chats/%s/messages", c.RootURL, c.teamsCtx.ChatID)

	attachmentID := uuid.New().String()

	link := tabName
	if tabID != "" {
		link = fmt.Sprintf("<a href='https://teams.microsoft.com/_#/tab::%s/%s?ctx=chat'>%s</a>", tabID, c.teamsCtx.ChatID, tabName)
	}

	payload := map[string]interface{}{
		"body": map[string]interface{}{
			"contentType": "html",
			"content":     fmt.Sprintf(`<attachment id="%s"></attachment>`, attachmentID),
		},
		"attachments": []map[string]interface{}{
			{
				"id":          attachmentID,
				"contentType": "application/vnd.microsoft.card.thumbnail",
				"content":     fmt.Sprintf(`{ "title": "%s", "text": "The survey was launched for this meeting. Go to %s tab" }`, tabName, link),
			},
		},
	}

	_, err := c.postData(ctx, requestURL, payload)
	return err
}
