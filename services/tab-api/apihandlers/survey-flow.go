package apihandlers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/meetings-survey/survey-backend/pkg/apihelpers"
	"github.com/meetings-survey/survey-backend/pkg/graph"
	"github.com/meetings-survey/survey-backend/pkg/survey"

	activityDB "github.com/meetings-survey/survey-backend/pkg/db/activity"
)

func (h *HttpEndpoints) AddSurveyAPI(rg *gin.RouterGroup) {
	rg.GET("/meeting-state", h.getMeetingState)
	rg.GET("/templates", h.getTemplates)

	pollsGroup := rg.Group("/polls")
	{
		pollsGroup.POST("", h.launchPoll)
		pollsGroup.GET("/session", h.getPollSession)
		pollsGroup.POST("/session/submit", h.submitPollSession)
		pollsGroup.GET("/results", h.getPollResults)
	}

	rg.GET("/activity", h.getActivity)
}

// getMeetingState resolves role and screen for the current data load.
// Meeting and poll are fetched concurrently; the meeting lookup fails soft,
// so only the poll lookup can reject the join.
func (h *HttpEndpoints) getMeetingState(c *gin.Context) {
	client, teamsCtx, err := h.graphClientForRequest(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	ctx := c.Request.Context()

	type pollResult struct {
		poll *graph.Poll
		err  error
	}
	pollCh := make(chan pollResult, 1)
	go func() {
		poll, err := client.GetMeetingPoll(ctx, teamsCtx.MeetingID)
		pollCh <- pollResult{poll, err}
	}()

	meeting, _ := client.GetMeetingDetails(ctx)

	pr := <-pollCh
	if pr.err != nil {
		slog.Error("failed to load meeting poll", slog.String("meetingId", teamsCtx.MeetingID), slog.String("error", pr.err.Error()))
		c.JSON(http.StatusBadGateway, gin.H{"error": pr.err.Error()})
		return
	}

	role := survey.RoleFor(meeting, teamsCtx.UserObjectID)
	screen := survey.ScreenFor(role, pr.poll != nil, isInMeetingPanel(c))

	c.JSON(http.StatusOK, gin.H{
		"meeting":       meeting,
		"poll":          pr.poll,
		"role":          role,
		"screen":        screen,
		"pollAvailable": survey.IsPollAvailable(pr.poll, time.Now()),
	})
}

func (h *HttpEndpoints) getTemplates(c *gin.Context) {
	client, _, err := h.graphClientForRequest(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	templates, err := client.GetTemplatesList(c.Request.Context())
	if err != nil {
		slog.Error("failed to load templates", slog.String("error", err.Error()))
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"templates": templates})
}

// launchPoll instantiates a template for the meeting. At most one poll per
// meeting, enforced by lookup-before-create only; a racing second launch can
// still slip through (no unique constraint in the list store).
func (h *HttpEndpoints) launchPoll(c *gin.Context) {
	client, teamsCtx, err := h.graphClientForRequest(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	var req struct {
		TemplateID string `json:"templateId"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Error("failed to bind request", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.TemplateID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "templateId is required"})
		return
	}

	ctx := c.Request.Context()

	meeting, _ := client.GetMeetingDetails(ctx)
	if survey.RoleFor(meeting, teamsCtx.UserObjectID) != survey.RoleOrganizer {
		c.JSON(http.StatusForbidden, gin.H{"error": "only the meeting organizer can launch a survey"})
		return
	}

	existing, err := client.GetMeetingPoll(ctx, teamsCtx.MeetingID)
	if err != nil {
		slog.Error("failed to check for existing poll", slog.String("meetingId", teamsCtx.MeetingID), slog.String("error", err.Error()))
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	if existing != nil {
		c.JSON(http.StatusOK, gin.H{"poll": existing, "alreadyExisted": true})
		return
	}

	type tabResult struct {
		tabID string
		err   error
	}
	tabCh := make(chan tabResult, 1)
	go func() {
		tabID, err := client.GetMeetingTabID(ctx, h.tabName)
		tabCh <- tabResult{tabID, err}
	}()

	poll, createErr := client.CreateMeetingPoll(ctx, req.TemplateID, teamsCtx.MeetingID, meeting)
	tr := <-tabCh

	if createErr != nil {
		slog.Error("failed to create poll", slog.String("meetingId", teamsCtx.MeetingID), slog.String("error", createErr.Error()))
		c.JSON(http.StatusBadGateway, gin.H{"error": createErr.Error()})
		return
	}
	if tr.err != nil {
		slog.Error("failed to resolve tab id", slog.String("chatId", teamsCtx.ChatID), slog.String("error", tr.err.Error()))
		c.JSON(http.StatusBadGateway, gin.H{"error": tr.err.Error()})
		return
	}
	if poll == nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "the poll was not created"})
		return
	}

	// announcement and audit trail are best effort
	if err := client.PostChatMessage(ctx, tr.tabID, h.tabName); err != nil {
		slog.Warn("failed to post chat message", slog.String("chatId", teamsCtx.ChatID), slog.String("error", err.Error()))
	}
	h.recordEvent(activityDB.EVENT_TYPE_POLL_LAUNCHED, teamsCtx, poll.ID)

	c.JSON(http.StatusOK, gin.H{"poll": poll})
}

// getPollSession loads what the poll form needs: the questions and the
// current user's persisted responses, fetched concurrently.
func (h *HttpEndpoints) getPollSession(c *gin.Context) {
	client, teamsCtx, err := h.graphClientForRequest(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	ctx := c.Request.Context()

	poll, err := client.GetMeetingPoll(ctx, teamsCtx.MeetingID)
	if err != nil {
		slog.Error("failed to load meeting poll", slog.String("meetingId", teamsCtx.MeetingID), slog.String("error", err.Error()))
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}

	if !survey.IsPollAvailable(poll, time.Now()) {
		c.JSON(http.StatusOK, gin.H{
			"poll":        poll,
			"available":   false,
			"questions":   []graph.Question{},
			"responses":   []graph.Response{},
			"allAnswered": false,
		})
		return
	}

	questions, responses, err := h.loadQuestionsAndResponses(c, client, poll, true)
	if err != nil {
		slog.Error("failed to load poll session", slog.String("pollId", poll.ID), slog.String("error", err.Error()))
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"poll":        poll,
		"available":   true,
		"questions":   questions,
		"responses":   responses,
		"allAnswered": survey.AllAnswered(questions, responses),
	})
}

func (h *HttpEndpoints) submitPollSession(c *gin.Context) {
	client, teamsCtx, err := h.graphClientForRequest(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	var req struct {
		Answers []struct {
			QuestionID string `json:"questionId"`
			Response   string `json:"response"`
		} `json:"answers"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Error("failed to bind request", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx := c.Request.Context()

	poll, err := client.GetMeetingPoll(ctx, teamsCtx.MeetingID)
	if err != nil {
		slog.Error("failed to load meeting poll", slog.String("meetingId", teamsCtx.MeetingID), slog.String("error", err.Error()))
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	if !survey.IsPollAvailable(poll, time.Now()) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "the survey is no longer accepting responses"})
		return
	}

	questions, loaded, err := h.loadQuestionsAndResponses(c, client, poll, true)
	if err != nil {
		slog.Error("failed to load poll session for submit", slog.String("pollId", poll.ID), slog.String("error", err.Error()))
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}

	// re-key staged answers by the already persisted row of their question,
	// so the create/update split stays idempotent
	loadedByQuestion := make(map[string]graph.Response, len(loaded))
	for _, response := range loaded {
		loadedByQuestion[response.QuestionID] = response
	}
	current := make([]graph.Response, 0, len(req.Answers))
	for _, answer := range req.Answers {
		staged := graph.Response{
			MeetingID:  teamsCtx.MeetingID,
			PollID:     poll.ID,
			UserID:     teamsCtx.UserObjectID,
			QuestionID: answer.QuestionID,
			Response:   answer.Response,
		}
		if persisted, found := loadedByQuestion[answer.QuestionID]; found {
			staged.ID = persisted.ID
		}
		current = append(current, staged)
	}

	submission := survey.BuildSubmission(questions, current, loaded, teamsCtx.MeetingID, poll.ID, teamsCtx.UserObjectID)

	if err := client.PostQuestionsResponses(ctx, teamsCtx.MeetingID, poll.ID, submission.New, submission.Existing); err != nil {
		slog.Error("failed to post responses", slog.String("pollId", poll.ID), slog.String("error", err.Error()))
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}

	h.recordEvent(activityDB.EVENT_TYPE_RESPONSES_SUBMITTED, teamsCtx, poll.ID)

	// reload instead of trusting the batch outcome, partial failures surface
	// as missing rows here
	responses, err := client.GetResponsesForPoll(ctx, poll.ID, true)
	if err != nil {
		slog.Error("failed to reload responses", slog.String("pollId", poll.ID), slog.String("error", err.Error()))
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"responses":   responses,
		"allAnswered": survey.AllAnswered(questions, responses),
	})
}

// getPollResults aggregates all responses for the organizer's results view.
func (h *HttpEndpoints) getPollResults(c *gin.Context) {
	client, teamsCtx, err := h.graphClientForRequest(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	ctx := c.Request.Context()

	type pollResult struct {
		poll *graph.Poll
		err  error
	}
	pollCh := make(chan pollResult, 1)
	go func() {
		poll, err := client.GetMeetingPoll(ctx, teamsCtx.MeetingID)
		pollCh <- pollResult{poll, err}
	}()

	meeting, _ := client.GetMeetingDetails(ctx)

	pr := <-pollCh
	if pr.err != nil {
		slog.Error("failed to load meeting poll", slog.String("meetingId", teamsCtx.MeetingID), slog.String("error", pr.err.Error()))
		c.JSON(http.StatusBadGateway, gin.H{"error": pr.err.Error()})
		return
	}
	if pr.poll == nil {
		c.JSON(http.StatusOK, gin.H{"results": nil})
		return
	}

	questions, responses, err := h.loadQuestionsAndResponses(c, client, pr.poll, false)
	if err != nil {
		slog.Error("failed to load poll results", slog.String("pollId", pr.poll.ID), slog.String("error", err.Error()))
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}

	users, err := client.GetUsersInfo(ctx, survey.DistinctUserIDs(responses))
	if err != nil {
		slog.Error("failed to load user info", slog.String("pollId", pr.poll.ID), slog.String("error", err.Error()))
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}

	attendeeCount := 0
	if meeting != nil {
		attendeeCount = len(meeting.Attendees)
	}

	c.JSON(http.StatusOK, gin.H{
		"results": survey.Summarize(questions, responses, attendeeCount, users),
	})
}

func (h *HttpEndpoints) getActivity(c *gin.Context) {
	meetingID := c.Query("meetingId")
	if meetingID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "meetingId is required"})
		return
	}

	limit, err := apihelpers.ParseLimitQuery(c, 50, 200)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid limit"})
		return
	}

	if h.activityDB == nil {
		c.JSON(http.StatusOK, gin.H{"events": []activityDB.SurveyEvent{}})
		return
	}

	events, err := h.activityDB.GetEventsForMeeting(meetingID, limit)
	if err != nil {
		slog.Error("failed to load activity", slog.String("meetingId", meetingID), slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "error loading activity"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"events": events})
}

// loadQuestionsAndResponses joins the two poll session lookups; the first
// failure wins and the sibling call is not cancelled.
func (h *HttpEndpoints) loadQuestionsAndResponses(c *gin.Context, client *graph.Client, poll *graph.Poll, currentUserOnly bool) ([]graph.Question, []graph.Response, error) {
	ctx := c.Request.Context()

	type questionsResult struct {
		questions []graph.Question
		err       error
	}
	questionsCh := make(chan questionsResult, 1)
	go func() {
		questions, err := client.GetQuestionsList(ctx, poll.TemplateID)
		questionsCh <- questionsResult{questions, err}
	}()

	responses, responsesErr := client.GetResponsesForPoll(ctx, poll.ID, currentUserOnly)
	qr := <-questionsCh

	if qr.err != nil {
		return nil, nil, qr.err
	}
	if responsesErr != nil {
		return nil, nil, responsesErr
	}
	return qr.questions, responses, nil
}

func (h *HttpEndpoints) recordEvent(eventType string, teamsCtx graph.TeamsContext, pollID string) {
	if h.activityDB == nil {
		return
	}
	err := h.activityDB.SaveEvent(activityDB.SurveyEvent{
		Type:      eventType,
		MeetingID: teamsCtx.MeetingID,
		PollID:    pollID,
		UserID:    teamsCtx.UserObjectID,
	})
	if err != nil {
		slog.Warn("failed to record survey event", slog.String("type", eventType), slog.String("error", err.Error()))
	}
}
