package apihandlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/meetings-survey/survey-backend/pkg/surveyconfig"
	"github.com/meetings-survey/survey-backend/pkg/tokenbroker"

	activityDB "github.com/meetings-survey/survey-backend/pkg/db/activity"
)

func HealthCheckHandle(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

type HttpEndpoints struct {
	surveyConfig *surveyconfig.Config
	tokenBroker  *tokenbroker.Broker
	activityDB   *activityDB.ActivityDBService
	graphTimeout time.Duration
	tabName      string

	// overrides the Graph API base URL, used in tests only
	graphRootURL string
}

func NewHTTPHandler(
	surveyConfig *surveyconfig.Config,
	tokenBroker *tokenbroker.Broker,
	activityDBService *activityDB.ActivityDBService,
	graphTimeout time.Duration,
	tabName string,
) *HttpEndpoints {
	return &HttpEndpoints{
		surveyConfig: surveyConfig,
		tokenBroker:  tokenBroker,
		activityDB:   activityDBService,
		graphTimeout: graphTimeout,
		tabName:      tabName,
	}
}
