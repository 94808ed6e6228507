package apihandlers

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/meetings-survey/survey-backend/pkg/graph"
)

// Teams context headers the tab client sends along with its Graph token.
const (
	headerChatID       = "X-Teams-Chat-Id"
	headerMeetingID    = "X-Teams-Meeting-Id"
	headerTenantID     = "X-Teams-Tenant-Id"
	headerUserID       = "X-Teams-User-Id"
	headerFrameContext = "X-Teams-Frame-Context"

	frameContextSidePanel = "sidePanel"
)

func teamsContextFromRequest(c *gin.Context) graph.TeamsContext {
	return graph.TeamsContext{
		ChatID:       c.GetHeader(headerChatID),
		MeetingID:    c.GetHeader(headerMeetingID),
		TenantID:     c.GetHeader(headerTenantID),
		UserObjectID: c.GetHeader(headerUserID),
	}
}

// isInMeetingPanel reports whether the tab runs in the live meeting side
// panel, which switches organizers from results to the plain poll form.
func isInMeetingPanel(c *gin.Context) bool {
	return c.GetHeader(headerFrameContext) == frameContextSidePanel
}

func accessTokenFromRequest(c *gin.Context) (string, error) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return "", errors.New("missing Authorization header")
	}
	token := strings.TrimSpace(strings.TrimPrefix(strings.TrimPrefix(authHeader, "Bearer "), "bearer "))
	if token == "" {
		return "", errors.New("empty bearer token")
	}
	return token, nil
}

func (h *HttpEndpoints) graphClientForRequest(c *gin.Context) (*graph.Client, graph.TeamsContext, error) {
	token, err := accessTokenFromRequest(c)
	if err != nil {
		return nil, graph.TeamsContext{}, err
	}

	teamsCtx := teamsContextFromRequest(c)
	client, err := graph.NewClient(token, teamsCtx, h.surveyConfig, h.graphTimeout)
	if err != nil {
		return nil, graph.TeamsContext{}, err
	}
	if h.graphRootURL != "" {
		client.RootURL = h.graphRootURL
	}
	return client, teamsCtx, nil
}
