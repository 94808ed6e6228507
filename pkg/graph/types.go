package graph

import "time"

type QuestionType string

const (
	QuestionTypeYesNo QuestionType = "yesNo"
	QuestionTypeText  QuestionType = "text"
)

// questionTypeFromListValue maps the SharePoint choice column value. Anything
// unknown falls back to a free text question.
func questionTypeFromListValue(value string) QuestionType {
	switch value {
	case "Yes/No":
		return QuestionTypeYesNo
	case "Text":
		return QuestionTypeText
	default:
		return QuestionTypeText
	}
}

// TeamsContext carries the identifiers the embedding host hands to the tab.
type TeamsContext struct {
	ChatID       string `json:"chatId"`
	MeetingID    string `json:"meetingId"`
	TenantID     string `json:"tenantId"`
	UserObjectID string `json:"userObjectId"`
}

type MeetingParticipant struct {
	UPN string `json:"upn"`
	ID  string `json:"id"`
}

type Meeting struct {
	ID            string               `json:"id"`
	StartDateTime time.Time            `json:"startDateTime"`
	EndDateTime   time.Time            `json:"endDateTime"`
	Subject       string               `json:"subject"`
	Organizer     MeetingParticipant   `json:"organizer"`
	Attendees     []MeetingParticipant `json:"attendees"`
}

type Template struct {
	ID           string   `json:"id"`
	Title        string   `json:"title"`
	Description  string   `json:"description"`
	QuestionsIDs []string `json:"questionsIds"`
}

type Question struct {
	ID         string       `json:"id"`
	Title      string       `json:"title"`
	Type       QuestionType `json:"type"`
	IsRequired bool         `json:"isRequired"`
}

type Poll struct {
	ID               string    `json:"id"`
	MeetingID        string    `json:"meetingId"`
	MeetingOrganizer string    `json:"meetingOrganizer"`
	MeetingAttendees string    `json:"meetingAttendees"`
	TemplateID       string    `json:"templateId"`
	StartDateTime    time.Time `json:"startDateTime"`
	EndDateTime      time.Time `json:"endDateTime"`
}

type Response struct {
	ID         string `json:"id"`
	UserID     string `json:"userId"`
	MeetingID  string `json:"meetingId"`
	PollID     string `json:"pollId"`
	QuestionID string `json:"questionId"`
	Response   string `json:"response"`
}

type User struct {
	ID          string `json:"id"`
	DisplayName string `json:"displayName"`
}
