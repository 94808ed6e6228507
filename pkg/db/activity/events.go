package activity

import (
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	EVENT_TYPE_POLL_LAUNCHED       = "poll_launched"
	EVENT_TYPE_RESPONSES_SUBMITTED = "responses_submitted"
)

type SurveyEvent struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Type      string             `bson:"type" json:"type"`
	MeetingID string             `bson:"meetingId" json:"meetingId"`
	PollID    string             `bson:"pollId" json:"pollId"`
	UserID    string             `bson:"userId" json:"userId"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
}

func (dbService *ActivityDBService) SaveEvent(event SurveyEvent) error {
	if event.Type == "" || event.MeetingID == "" {
		return errors.New("event type and meetingId are required")
	}
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now()
	}

	ctx, cancel := dbService.getContext()
	defer cancel()

	_, err := dbService.collectionEvents().InsertOne(ctx, event)
	return err
}

// GetEventsForMeeting returns the newest events for one meeting.
func (dbService *ActivityDBService) GetEventsForMeeting(meetingID string, limit int64) ([]SurveyEvent, error) {
	if meetingID == "" {
		return nil, errors.New("meetingId is required")
	}
	if limit <= 0 {
		limit = 50
	}

	ctx, cancel := dbService.getContext()
	defer cancel()

	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetLimit(limit)

	cursor, err := dbService.collectionEvents().Find(ctx, bson.M{"meetingId": meetingID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	events := []SurveyEvent{}
	if err := cursor.All(ctx, &events); err != nil {
		return nil, err
	}
	return events, nil
}
