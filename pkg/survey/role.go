package survey

import "github.com/meetings-survey/survey-backend/pkg/graph"

type MeetingRole string

const (
	RoleOrganizer MeetingRole = "organizer"
	RoleAttendee  MeetingRole = "attendee"
)

// RoleFor derives the meeting role from the meeting lookup. A nil meeting
// means the lookup failed or was not permitted, which is indistinguishable
// from "not the organizer" and therefore yields the attendee role.
func RoleFor(meeting *graph.Meeting, userObjectID string) MeetingRole {
	if meeting != nil && userObjectID != "" && meeting.Organizer.ID == userObjectID {
		return RoleOrganizer
	}
	return RoleAttendee
}
