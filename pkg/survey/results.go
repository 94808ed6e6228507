package survey

import (
	"math"
	"strconv"

	"github.com/meetings-survey/survey-backend/pkg/graph"
	"github.com/meetings-survey/survey-backend/pkg/utils"
)

// TallyPlaceholder marks a question the yes/no tally does not apply to.
const TallyPlaceholder = "-"

type QuestionTally struct {
	QuestionID string `json:"questionId"`
	Title      string `json:"title"`
	// Yes and No hold counts for yes/no questions and "-" otherwise.
	Yes string `json:"yes"`
	No  string `json:"no"`
}

type UserAnswers struct {
	UserID      string   `json:"userId"`
	DisplayName string   `json:"displayName"`
	Answers     []string `json:"answers"`
}

type Results struct {
	TotalParticipants    int             `json:"totalParticipants"`
	ParticipantsAnswered int             `json:"participantsAnswered"`
	PercentageAnswered   int             `json:"percentageAnswered"`
	Tallies              []QuestionTally `json:"tallies"`
	UserAnswers          []UserAnswers   `json:"userAnswers"`
}

// DistinctUserIDs returns the user ids present in the response set, in first
// appearance order.
func DistinctUserIDs(responses []graph.Response) []string {
	seen := make(map[string]bool, len(responses))
	ids := make([]string, 0, len(responses))
	for _, response := range responses {
		if response.UserID == "" || seen[response.UserID] {
			continue
		}
		seen[response.UserID] = true
		ids = append(ids, response.UserID)
	}
	return ids
}

// Summarize aggregates the full response set of a poll for the organizer's
// results view. Coverage counts the organizer on top of the attendees.
func Summarize(questions []graph.Question, responses []graph.Response, attendeeCount int, users []graph.User) Results {
	totalParticipants := attendeeCount + 1
	answeredUserIDs := DistinctUserIDs(responses)

	percentage := 0
	if totalParticipants > 0 {
		percentage = int(math.Round(float64(len(answeredUserIDs)) * 100 / float64(totalParticipants)))
	}

	results := Results{
		TotalParticipants:    totalParticipants,
		ParticipantsAnswered: len(answeredUserIDs),
		PercentageAnswered:   percentage,
		Tallies:              make([]QuestionTally, 0, len(questions)),
		UserAnswers:          []UserAnswers{},
	}

	for _, question := range questions {
		tally := QuestionTally{
			QuestionID: question.ID,
			Title:      question.Title,
			Yes:        TallyPlaceholder,
			No:         TallyPlaceholder,
		}
		if question.Type == graph.QuestionTypeYesNo {
			total := 0
			yes := 0
			for _, response := range responses {
				if response.QuestionID != question.ID {
					continue
				}
				total++
				if utils.ParseBool(response.Response, false) {
					yes++
				}
			}
			tally.Yes = strconv.Itoa(yes)
			tally.No = strconv.Itoa(total - yes)
		}
		results.Tallies = append(results.Tallies, tally)
	}

	displayNames := make(map[string]string, len(users))
	for _, user := range users {
		displayNames[user.ID] = user.DisplayName
	}

	for _, userID := range answeredUserIDs {
		displayName := displayNames[userID]
		if displayName == "" {
			// identity lookup failed for this user, leave them out
			continue
		}

		answers := make([]string, 0, len(questions))
		for _, question := range questions {
			answer := ""
			for _, response := range responses {
				if response.UserID == userID && response.QuestionID == question.ID {
					answer = response.Response
					break
				}
			}
			answers = append(answers, answer)
		}
		results.UserAnswers = append(results.UserAnswers, UserAnswers{
			UserID:      userID,
			DisplayName: displayName,
			Answers:     answers,
		})
	}

	return results
}
