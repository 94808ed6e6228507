package survey

import (
	"time"

	"github.com/meetings-survey/survey-backend/pkg/graph"
)

// responseGraceWindow extends the submission window past the meeting end.
// Fixed policy, not configurable.
const responseGraceWindow = time.Hour

// IsPollAvailable reports whether responses may still be submitted: the poll
// must exist, carry a validity window, and `now - 1h` must be before the end
// of that window.
func IsPollAvailable(poll *graph.Poll, now time.Time) bool {
	if poll == nil || poll.StartDateTime.IsZero() || poll.EndDateTime.IsZero() {
		return false
	}
	return now.Add(-responseGraceWindow).Before(poll.EndDateTime)
}

// AllAnswered reports whether every question already has a persisted
// response, in which case the poll form renders its empty state.
func AllAnswered(questions []graph.Question, loaded []graph.Response) bool {
	if len(questions) < 1 {
		return true
	}
	answered := make(map[string]bool, len(loaded))
	for _, response := range loaded {
		answered[response.QuestionID] = true
	}
	for _, question := range questions {
		if !answered[question.ID] {
			return false
		}
	}
	return true
}
