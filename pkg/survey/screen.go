package survey

type Screen string

const (
	ScreenTemplatePicker Screen = "templatePicker"
	ScreenPollForm       Screen = "pollForm"
	ScreenResultsAndPoll Screen = "resultsAndPoll"
	ScreenEmpty          Screen = "empty"
)

// ScreenFor selects the screen for a data load. Organizers pick a template
// in pre-meeting mode until a poll exists, see the poll form in the meeting
// side panel, and results plus poll in pre-meeting mode once launched.
// Attendees always get the poll form; whether it renders as empty is the
// poll availability's concern, decided at render time.
func ScreenFor(role MeetingRole, hasPoll bool, inMeetingPanel bool) Screen {
	if role != RoleOrganizer {
		return ScreenPollForm
	}
	if !hasPoll {
		if inMeetingPanel {
			return ScreenPollForm
		}
		return ScreenTemplatePicker
	}
	if inMeetingPanel {
		return ScreenPollForm
	}
	return ScreenResultsAndPoll
}
