package apihandlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/meetings-survey/survey-backend/pkg/tokenbroker"
)

func (h *HttpEndpoints) AddAppConfigAPI(rg *gin.RouterGroup) {
	rg.GET("/getConfig", h.getConfig)
	rg.GET("/getGraphAccessToken", h.getGraphAccessToken)
}

// getConfig hands the survey list schema to the tab client. The app secret
// never leaves the server.
func (h *HttpEndpoints) getConfig(c *gin.Context) {
	c.JSON(http.StatusOK, h.surveyConfig.ClientMap())
}

func (h *HttpEndpoints) getGraphAccessToken(c *gin.Context) {
	if h.surveyConfig.AppID == "" {
		slog.Error("getGraphAccessToken: client id is not configured")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Client Id is not valid"})
		return
	}
	if h.surveyConfig.AppSecret == "" {
		slog.Error("getGraphAccessToken: client secret is not configured")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Client Secret is not valid"})
		return
	}

	ssoToken := c.Query("ssoToken")

	data, err := h.tokenBroker.Exchange(c.Request.Context(), ssoToken)
	if err != nil {
		if errors.Is(err, tokenbroker.ErrConsentRequired) {
			// expected on first use of the app or when the admin requires MFA;
			// the client reacts with its consent popup
			slog.Info("token exchange needs user consent or MFA")
			c.JSON(http.StatusForbidden, gin.H{"error": "consent_required"})
			return
		}
		slog.Error("could not exchange access token", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not exchange access token"})
		return
	}

	c.JSON(http.StatusOK, data)
}
