package survey

import (
	"testing"

	"github.com/meetings-survey/survey-backend/pkg/graph"
)

var submissionQuestions = []graph.Question{
	{ID: "q1", Type: graph.QuestionTypeYesNo},
	{ID: "q2", Type: graph.QuestionTypeText},
	{ID: "q3", Type: graph.QuestionTypeYesNo},
}

func TestBuildSubmissionSplitsByExistingID(t *testing.T) {
	loaded := []graph.Response{
		{ID: "item-1", QuestionID: "q1", Response: "true"},
	}
	current := []graph.Response{
		{ID: "item-1", QuestionID: "q1", Response: "false"}, // edited, already persisted
		{QuestionID: "q2", Response: "all good"},            // staged, new
	}

	submission := BuildSubmission(submissionQuestions, current, loaded, "meeting-1", "poll-1", "user-1")

	if len(submission.Existing) != 1 || submission.Existing[0].ID != "item-1" {
		t.Errorf("expected one update keyed by item-1, got %+v", submission.Existing)
	}
	// q2 staged plus q3 default-filled
	if len(submission.New) != 2 {
		t.Fatalf("expected two creates, got %+v", submission.New)
	}
	if submission.New[0].QuestionID != "q2" {
		t.Errorf("unexpected first create: %+v", submission.New[0])
	}
}

func TestBuildSubmissionDefaultFillCoversAllQuestions(t *testing.T) {
	submission := BuildSubmission(submissionQuestions, nil, nil, "meeting-1", "poll-1", "user-1")

	if len(submission.New) != len(submissionQuestions) {
		t.Fatalf("expected a create per question, got %d", len(submission.New))
	}
	if len(submission.Existing) != 0 {
		t.Errorf("expected no updates, got %+v", submission.Existing)
	}

	byQuestion := map[string]graph.Response{}
	for _, response := range submission.New {
		byQuestion[response.QuestionID] = response
	}
	if byQuestion["q1"].Response != "false" || byQuestion["q3"].Response != "false" {
		t.Error("unanswered yes/no questions must default to \"false\"")
	}
	if byQuestion["q2"].Response != "" {
		t.Error("unanswered text questions must default to an empty string")
	}
	for _, response := range submission.New {
		if response.MeetingID != "meeting-1" || response.PollID != "poll-1" || response.UserID != "user-1" {
			t.Errorf("synthesized response misses identity fields: %+v", response)
		}
	}
}

// Submitting an unchanged answer set twice must produce updates only, so no
// duplicate rows are ever created.
func TestBuildSubmissionIsIdempotentForUnchangedAnswers(t *testing.T) {
	persisted := []graph.Response{
		{ID: "item-1", QuestionID: "q1", Response: "true"},
		{ID: "item-2", QuestionID: "q2", Response: "fine"},
		{ID: "item-3", QuestionID: "q3", Response: "false"},
	}

	submission := BuildSubmission(submissionQuestions, persisted, persisted, "meeting-1", "poll-1", "user-1")

	if len(submission.New) != 0 {
		t.Errorf("unchanged resubmit must not create rows, got %+v", submission.New)
	}
	if len(submission.Existing) != len(persisted) {
		t.Errorf("expected %d updates, got %d", len(persisted), len(submission.Existing))
	}
}

func TestDefaultResponseValue(t *testing.T) {
	if DefaultResponseValue(graph.QuestionTypeYesNo) != "false" {
		t.Error("yes/no default must be \"false\"")
	}
	if DefaultResponseValue(graph.QuestionTypeText) != "" {
		t.Error("text default must be empty")
	}
}
