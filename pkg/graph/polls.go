package graph

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"
)

// GetMeetingPoll returns the poll created for the given meeting, or nil when
// none exists yet. At most one poll per meeting is expected; extra rows are
// ignored in favor of the first match.
func (c *Client) GetMeetingPoll(ctx context.Context, meetingID string) (*Poll, error) {
	if meetingID == "" {
		return nil, nil
	}

	schema := c.schema.Polls
	selected := strings.Join([]string{
		schema.MeetingIDField,
		schema.MeetingOrganizerField,
		schema.MeetingAttendeesField,
		schema.TemplateField,
		schema.StartDateField,
		schema.EndDateField,
	}, ",")
	filter := fmt.Sprintf("fields/%s eq '%s'", schema.MeetingIDField, meetingID)
	requestURL := fmt.Sprintf("%s%s/items?expand=fields(select=%s)&$filter=%s",
		c.RootURL, c.sitePath(schema.ListTitle), url.PathEscape(selected), url.PathEscape(filter))

	result, err := c.getData(ctx, requestURL, true)
	if err != nil {
		return nil, err
	}

	items := decodeListItems(result)
	if len(items) < 1 {
		return nil, nil
	}
	item := items[0]

	return &Poll{
		ID:               item.ID,
		MeetingID:        item.fieldString(schema.MeetingIDField),
		MeetingOrganizer: item.fieldString(schema.MeetingOrganizerField),
		MeetingAttendees: item.fieldString(schema.MeetingAttendeesField),
		TemplateID:       item.fieldString(schema.TemplateField),
		StartDateTime:    item.fieldTime(schema.StartDateField),
		EndDateTime:      item.fieldTime(schema.EndDateField),
	}, nil
}

// CreateMeetingPoll writes one poll record for the meeting and re-reads it.
// The create-and-read pair is not atomic; a racing launch can produce a
// second row, the lookup-before-create in the handler is the only guard.
func (c *Client) CreateMeetingPoll(ctx context.Context, templateID string, meetingID string, meeting *Meeting) (*Poll, error) {
	if templateID == "" {
		return nil, errors.New("graph: createMeetingPoll requires a templateId")
	}
	if meetingID == "" {
		return nil, errors.New("graph: createMeetingPoll requires a meetingId")
	}
	if meeting == nil {
		return nil, errors.New("graph: createMeetingPoll requires the meeting details")
	}

	schema := c.schema.Polls

	attendees := make([]string, 0, len(meeting.Attendees))
	for _, attendee := range meeting.Attendees {
		attendees = append(attendees, attendee.UPN)
	}

	fields := map[string]interface{}{
		schema.MeetingIDField:        meetingID,
		schema.MeetingOrganizerField: meeting.Organizer.UPN,
		schema.MeetingAttendeesField: strings.Join(attendees, "; "),
		schema.TemplateField:         templateID,
		schema.StartDateField:        meeting.StartDateTime.UTC().Format(time.RFC3339),
		schema.EndDateField:          meeting.EndDateTime.UTC().Format(time.RFC3339),
		schema.MeetingNameField:      meeting.Subject,
	}

	requestURL := c.RootURL + c.sitePath(schema.ListTitle) + "/items"
	if _, err := c.postData(ctx, requestURL, map[string]interface{}{"fields": fields}); err != nil {
		return nil, err
	}

	return c.GetMeetingPoll(ctx, meetingID)
}
