package graph

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
)

// GetMeetingDetails looks up the online meeting by its join URL. Attendees
// typically lack permission for this call, so any failure is treated as "no
// meeting" and the caller infers the attendee role from the nil result.
// Permission-denied and genuine lookup failures are indistinguishable here;
// the warning log is the only trace of that ambiguity.
func (c *Client) GetMeetingDetails(ctx context.Context) (*Meeting, error) {
	joinURL := fmt.Sprintf(`https://teams.microsoft.com/l/meetup-join/%s/0?context={"Tid":"%s","Oid":"%s"}`,
		c.teamsCtx.ChatID, c.teamsCtx.TenantID, c.teamsCtx.UserObjectID)
	filter := fmt.Sprintf("JoinWebUrl eq '%s'", joinURL)
	requestURL := c.RootURL + "/me/onlineMeetings?$filter=" + url.PathEscape(filter)

	result, err := c.getData(ctx, requestURL, false)
	if err != nil {
		slog.Warn("meeting lookup failed, treating current user as attendee",
			slog.String("userId", c.teamsCtx.UserObjectID),
			slog.String("error", err.Error()))
		return nil, nil
	}

	values, ok := result["value"].([]interface{})
	if !ok || len(values) < 1 {
		return nil, nil
	}
	raw, ok := values[0].(map[string]interface{})
	if !ok {
		return nil, nil
	}

	return decodeMeeting(raw), nil
}

func decodeMeeting(raw map[string]interface{}) *Meeting {
	item := listItem{Fields: raw}

	meeting := &Meeting{
		ID:            item.fieldString("id"),
		StartDateTime: item.fieldTime("startDateTime"),
		EndDateTime:   item.fieldTime("endDateTime"),
		Subject:       item.fieldString("subject"),
	}

	participants, ok := raw["participants"].(map[string]interface{})
	if !ok {
		return meeting
	}

	meeting.Organizer = decodeParticipant(participants["organizer"])
	if attendees, ok := participants["attendees"].([]interface{}); ok {
		for _, attendee := range attendees {
			meeting.Attendees = append(meeting.Attendees, decodeParticipant(attendee))
		}
	}
	return meeting
}

func decodeParticipant(raw interface{}) MeetingParticipant {
	participant := MeetingParticipant{}
	obj, ok := raw.(map[string]interface{})
	if !ok {
		return participant
	}

	if upn, ok := obj["upn"].(string); ok {
		participant.UPN = upn
	}
	if identity, ok := obj["identity"].(map[string]interface{}); ok {
		if user, ok := identity["user"].(map[string]interface{}); ok {
			if id, ok := user["id"].(string); ok {
				participant.ID = id
			}
		}
	}
	return participant
}
