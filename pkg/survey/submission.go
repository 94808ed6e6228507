package survey

import "github.com/meetings-survey/survey-backend/pkg/graph"

// Submission is the create/update split for one submit. New entries have no
// persisted row yet; Existing entries update the row their id points at.
// Distinguishing the two by id is what makes a repeated submit idempotent,
// the list store enforces no uniqueness on (user, question, poll).
type Submission struct {
	New      []graph.Response
	Existing []graph.Response
}

// DefaultResponseValue is the synthesized answer for a question the user
// left untouched: unchecked for yes/no, empty for free text.
func DefaultResponseValue(questionType graph.QuestionType) string {
	if questionType == graph.QuestionTypeYesNo {
		return "false"
	}
	return ""
}

// BuildSubmission splits the staged responses into creates and updates and
// appends synthesized defaults for every question without a staged answer,
// so each visible question ends up with exactly one persisted record.
func BuildSubmission(questions []graph.Question, current []graph.Response, loaded []graph.Response, meetingID string, pollID string, userID string) Submission {
	loadedIDs := make(map[string]bool, len(loaded))
	for _, response := range loaded {
		if response.ID != "" {
			loadedIDs[response.ID] = true
		}
	}

	submission := Submission{
		New:      []graph.Response{},
		Existing: []graph.Response{},
	}

	staged := make(map[string]bool, len(current))
	for _, response := range current {
		staged[response.QuestionID] = true
		if response.ID != "" && loadedIDs[response.ID] {
			submission.Existing = append(submission.Existing, response)
		} else {
			submission.New = append(submission.New, response)
		}
	}

	for _, question := range questions {
		if staged[question.ID] {
			continue
		}
		submission.New = append(submission.New, graph.Response{
			MeetingID:  meetingID,
			PollID:     pollID,
			UserID:     userID,
			QuestionID: question.ID,
			Response:   DefaultResponseValue(question.Type),
		})
	}

	return submission
}
