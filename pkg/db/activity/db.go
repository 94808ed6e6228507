package activity

import (
	"context"
	"log/slog"
	"time"

	"github.com/meetings-survey/survey-backend/pkg/db"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	COLLECTION_NAME_EVENTS = "survey-events"
)

// ActivityDBService keeps the audit trail of poll launches and response
// submissions. The tab works without it; recording is best effort.
type ActivityDBService struct {
	DBClient     *mongo.Client
	timeout      int
	DBNamePrefix string
}

func NewActivityDBService(configs db.DBConfig) (*ActivityDBService, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(configs.Timeout)*time.Second)
	defer cancel()

	dbClient, err := mongo.Connect(ctx,
		options.Client().ApplyURI(configs.URI),
		options.Client().SetMaxConnIdleTime(time.Duration(configs.IdleConnTimeout)*time.Second),
		options.Client().SetMaxPoolSize(configs.MaxPoolSize),
	)
	if err != nil {
		return nil, err
	}

	ctx, conCancel := context.WithTimeout(context.Background(), time.Duration(configs.Timeout)*time.Second)
	err = dbClient.Ping(ctx, nil)
	defer conCancel()

	if err != nil {
		return nil, err
	}

	activityDBSc := &ActivityDBService{
		DBClient:     dbClient,
		timeout:      configs.Timeout,
		DBNamePrefix: configs.DBNamePrefix,
	}

	activityDBSc.ensureIndexes()
	return activityDBSc, nil
}

func (dbService *ActivityDBService) getDBName() string {
	return dbService.DBNamePrefix + "meetings-survey"
}

func (dbService *ActivityDBService) getContext() (ctx context.Context, cancel context.CancelFunc) {
	return context.WithTimeout(context.Background(), time.Duration(dbService.timeout)*time.Second)
}

func (dbService *ActivityDBService) collectionEvents() *mongo.Collection {
	return dbService.DBClient.Database(dbService.getDBName()).Collection(COLLECTION_NAME_EVENTS)
}

func (dbService *ActivityDBService) ensureIndexes() {
	slog.Debug("Ensuring indexes for activity DB")
	ctx, cancel := dbService.getContext()
	defer cancel()

	_, err := dbService.collectionEvents().Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{
			{Key: "meetingId", Value: 1},
			{Key: "createdAt", Value: -1},
		},
	})
	if err != nil {
		slog.Debug("Error creating index for survey events", slog.String("error", err.Error()))
	}
}
