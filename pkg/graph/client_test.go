package graph

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/meetings-survey/survey-backend/pkg/surveyconfig"
)

func testSchema() *surveyconfig.Config {
	return &surveyconfig.Config{
		SourceSiteURL:      "https://contoso.sharepoint.com/sites/surveys",
		SiteDomain:         "contoso.sharepoint.com",
		ServerRelativePath: "/sites/surveys",
		AppID:              "app-id",
		AppSecret:          "app-secret",
		Questions: surveyconfig.QuestionsListSchema{
			ListTitle:       "Questions",
			TitleField:      "Title",
			TypeField:       "QuestionType",
			IsRequiredField: "IsRequired",
		},
		Templates: surveyconfig.TemplatesListSchema{
			ListTitle:        "Templates",
			TitleField:       "Title",
			DescriptionField: "Description",
			QuestionsField:   "Questions",
		},
		Polls: surveyconfig.PollsListSchema{
			ListTitle:             "Polls",
			MeetingIDField:        "MeetingId",
			MeetingOrganizerField: "MeetingOrganizer",
			MeetingAttendeesField: "MeetingAttendees",
			TemplateField:         "PollTemplate",
			StartDateField:        "StartDate",
			EndDateField:          "EndDate",
			MeetingNameField:      "MeetingName",
		},
		Responses: surveyconfig.ResponsesListSchema{
			ListTitle:       "Responses",
			UserIDField:     "UserId",
			MeetingIDField:  "MeetingId",
			TenantIDField:   "TenantId",
			QuestionIDField: "QuestionId",
			ResponseField:   "Response",
			PollIDField:     "PollId",
		},
	}
}

func testTeamsContext() TeamsContext {
	return TeamsContext{
		ChatID:       "19:meeting_chat",
		MeetingID:    "meeting-1",
		TenantID:     "tenant-1",
		UserObjectID: "user-1",
	}
}

func newTestClient(t *testing.T, upstream *httptest.Server) *Client {
	t.Helper()
	client, err := NewClient("test-token", testTeamsContext(), testSchema(), 5*time.Second)
	if err != nil {
		t.Fatalf("could not create client: %s", err)
	}
	client.RootURL = upstream.URL
	return client
}

func writeJSON(t *testing.T, w http.ResponseWriter, payload interface{}) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		t.Fatalf("could not encode payload: %s", err)
	}
}

func TestNewClientRequiresToken(t *testing.T) {
	if _, err := NewClient("", testTeamsContext(), testSchema(), time.Second); err == nil {
		t.Error("expected error for empty access token, but got nil")
	}
}

func TestGetDataSurfacesUpstreamErrorMessage(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"error": map[string]string{"code": "invalidRequest", "message": "The query specified in the URI is not valid."},
		})
	}))
	defer upstream.Close()

	client := newTestClient(t, upstream)
	_, err := client.GetTemplatesList(context.Background())
	if err == nil {
		t.Fatal("expected error, but got nil")
	}
	if !strings.Contains(err.Error(), "The query specified in the URI is not valid.") {
		t.Errorf("expected upstream message in error, got %s", err)
	}
}

func TestGetMeetingDetailsFailsSoft(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"error": map[string]string{"message": "Forbidden"},
		})
	}))
	defer upstream.Close()

	client := newTestClient(t, upstream)
	meeting, err := client.GetMeetingDetails(context.Background())
	if err != nil {
		t.Errorf("meeting lookup errors must be swallowed, got %s", err)
	}
	if meeting != nil {
		t.Errorf("expected nil meeting, got %+v", meeting)
	}
}

func TestGetMeetingDetailsMapsParticipants(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasPrefix(r.URL.Path, "/me/onlineMeetings") {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-token" {
			t.Errorf("unexpected authorization header: %s", got)
		}
		writeJSON(t, w, map[string]interface{}{
			"value": []map[string]interface{}{
				{
					"id":            "meeting-item-1",
					"startDateTime": "2026-09-01T10:00:00Z",
					"endDateTime":   "2026-09-01T11:00:00Z",
					"subject":       "Sprint review",
					"participants": map[string]interface{}{
						"organizer": map[string]interface{}{
							"upn": "organizer@contoso.com",
							"identity": map[string]interface{}{
								"user": map[string]interface{}{"id": "user-1"},
							},
						},
						"attendees": []map[string]interface{}{
							{
								"upn": "attendee@contoso.com",
								"identity": map[string]interface{}{
									"user": map[string]interface{}{"id": "user-2"},
								},
							},
						},
					},
				},
			},
		})
	}))
	defer upstream.Close()

	client := newTestClient(t, upstream)
	meeting, err := client.GetMeetingDetails(context.Background())
	if err != nil {
		t.Fatalf("expected no error, but got %s", err)
	}
	if meeting == nil {
		t.Fatal("expected meeting, got nil")
	}
	if meeting.Subject != "Sprint review" {
		t.Errorf("unexpected subject: %s", meeting.Subject)
	}
	if meeting.Organizer.ID != "user-1" || meeting.Organizer.UPN != "organizer@contoso.com" {
		t.Errorf("unexpected organizer: %+v", meeting.Organizer)
	}
	if len(meeting.Attendees) != 1 || meeting.Attendees[0].ID != "user-2" {
		t.Errorf("unexpected attendees: %+v", meeting.Attendees)
	}
	if meeting.StartDateTime.IsZero() || meeting.EndDateTime.IsZero() {
		t.Error("meeting window must be parsed")
	}
}

func TestGetMeetingPollReturnsNilForNoRows(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Prefer"); got != preferHeaderValue {
			t.Errorf("expected Prefer header for filtered list query, got %q", got)
		}
		writeJSON(t, w, map[string]interface{}{"value": []interface{}{}})
	}))
	defer upstream.Close()

	client := newTestClient(t, upstream)
	poll, err := client.GetMeetingPoll(context.Background(), "meeting-1")
	if err != nil {
		t.Fatalf("expected no error, but got %s", err)
	}
	if poll != nil {
		t.Errorf("expected nil poll for zero rows, got %+v", poll)
	}
}

func TestGetMeetingPollMapsFields(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, map[string]interface{}{
			"value": []map[string]interface{}{
				{
					"id": "poll-1",
					"fields": map[string]interface{}{
						"MeetingId":        "meeting-1",
						"MeetingOrganizer": "organizer@contoso.com",
						"MeetingAttendees": "a@contoso.com; b@contoso.com",
						"PollTemplate":     "template-1",
						"StartDate":        "2026-09-01T10:00:00Z",
						"EndDate":          "2026-09-01T11:00:00Z",
					},
				},
			},
		})
	}))
	defer upstream.Close()

	client := newTestClient(t, upstream)
	poll, err := client.GetMeetingPoll(context.Background(), "meeting-1")
	if err != nil {
		t.Fatalf("expected no error, but got %s", err)
	}
	if poll == nil {
		t.Fatal("expected poll, got nil")
	}
	if poll.ID != "poll-1" || poll.TemplateID != "template-1" || poll.MeetingID != "meeting-1" {
		t.Errorf("unexpected poll mapping: %+v", poll)
	}
	if poll.EndDateTime.Format(time.RFC3339) != "2026-09-01T11:00:00Z" {
		t.Errorf("unexpected end date: %s", poll.EndDateTime)
	}
}

func TestCreateMeetingPollValidatesArguments(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected for invalid arguments")
	}))
	defer upstream.Close()

	client := newTestClient(t, upstream)
	meeting := &Meeting{ID: "meeting-1"}

	if _, err := client.CreateMeetingPoll(context.Background(), "", "meeting-1", meeting); err == nil {
		t.Error("expected error for empty templateId, but got nil")
	}
	if _, err := client.CreateMeetingPoll(context.Background(), "template-1", "", meeting); err == nil {
		t.Error("expected error for empty meetingId, but got nil")
	}
	if _, err := client.CreateMeetingPoll(context.Background(), "template-1", "meeting-1", nil); err == nil {
		t.Error("expected error for missing meeting, but got nil")
	}
}

func TestCreateMeetingPollWritesAndRereads(t *testing.T) {
	var createdFields map[string]interface{}

	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			var payload struct {
				Fields map[string]interface{} `json:"fields"`
			}
			if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
				t.Fatalf("could not decode create payload: %s", err)
			}
			createdFields = payload.Fields
			writeJSON(t, w, map[string]interface{}{"id": "poll-1"})
			return
		}
		writeJSON(t, w, map[string]interface{}{
			"value": []map[string]interface{}{
				{
					"id": "poll-1",
					"fields": map[string]interface{}{
						"MeetingId":    "meeting-1",
						"PollTemplate": "template-1",
						"StartDate":    "2026-09-01T10:00:00Z",
						"EndDate":      "2026-09-01T11:00:00Z",
					},
				},
			},
		})
	}))
	defer upstream.Close()

	client := newTestClient(t, upstream)
	meeting := &Meeting{
		ID:            "meeting-1",
		Subject:       "Sprint review",
		StartDateTime: time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC),
		EndDateTime:   time.Date(2026, 9, 1, 11, 0, 0, 0, time.UTC),
		Organizer:     MeetingParticipant{UPN: "organizer@contoso.com", ID: "user-1"},
		Attendees: []MeetingParticipant{
			{UPN: "a@contoso.com", ID: "user-2"},
			{UPN: "b@contoso.com", ID: "user-3"},
		},
	}

	poll, err := client.CreateMeetingPoll(context.Background(), "template-1", "meeting-1", meeting)
	if err != nil {
		t.Fatalf("expected no error, but got %s", err)
	}
	if poll == nil || poll.ID != "poll-1" {
		t.Fatalf("expected re-read poll, got %+v", poll)
	}

	if createdFields["MeetingAttendees"] != "a@contoso.com; b@contoso.com" {
		t.Errorf("unexpected attendees serialization: %v", createdFields["MeetingAttendees"])
	}
	if createdFields["MeetingOrganizer"] != "organizer@contoso.com" {
		t.Errorf("unexpected organizer: %v", createdFields["MeetingOrganizer"])
	}
	if createdFields["MeetingName"] != "Sprint review" {
		t.Errorf("unexpected meeting name: %v", createdFields["MeetingName"])
	}
}
