package repository

import (
	"context"
	"health_survey_backend/internal/model"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

type submissionDocument struct {
	ID           primitive.ObjectID           `bson:"_id"`
	Answers      map[string]model.AnswerValue `bson:"answers"`
	SourceSuffix *string                      `bson:"sourceSuffix"`
	SubmittedAt  time.Time                    `bson:"submittedAt"`
}

type MongoSubmissionRepository struct {
	Collection *mongo.Collection
	timeout    time.Duration
}

func NewMongoSubmissionRepository(collection *mongo.Collection, timeout time.Duration) *MongoSubmissionRepository {
	return &MongoSubmissionRepository{Collection: collection, timeout: timeout}
}

func (r *MongoSubmissionRepository) getContext(parent context.Context) (context.Context, context.CancelFunc) {
	if r.timeout <= 0 {
		return context.WithCancel(parent)
	}
	return context.WithTimeout(parent, r.timeout)
}

// EnsureIndexes 按来源标记和提交时间建索引
func (r *MongoSubmissionRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := r.getContext(ctx)
	defer cancel()

	_, err := r.Collection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "sourceSuffix", Value: 1},
			},
		},
		{
			Keys: bson.D{
				{Key: "submittedAt", Value: -1},
			},
		},
	})
	return err
}

func (r *MongoSubmissionRepository) Create(ctx context.Context, submission *model.SurveySubmission) error {
	ctx, cancel := r.getContext(ctx)
	defer cancel()

	doc := submissionDocument{
		ID:           primitive.NewObjectID(),
		Answers:      submission.Answers,
		SourceSuffix: submission.SourceSuffix,
		SubmittedAt:  time.Now().UTC().Truncate(time.Millisecond),
	}

	if _, err := r.Collection.InsertOne(ctx, doc); err != nil {
		return err
	}

	submission.ID = doc.ID.Hex()
	submission.SubmittedAt = doc.SubmittedAt
	return nil
}

func (r *MongoSubmissionRepository) Ping(ctx context.Context) error {
	ctx, cancel := r.getContext(ctx)
	defer cancel()
	return r.Collection.Database().Client().Ping(ctx, readpref.Primary())
}
