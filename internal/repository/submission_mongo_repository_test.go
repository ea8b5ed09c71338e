package repository

import (
	"context"
	"testing"
	"time"

	"health_survey_backend/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

func insertedDocument(mt *mtest.T) bson.Raw {
	started := mt.GetStartedEvent()
	require.NotNil(mt, started)
	require.Equal(mt, "insert", started.CommandName)

	docs, err := started.Command.Lookup("documents").Array().Values()
	require.NoError(mt, err)
	require.Len(mt, docs, 1)
	return docs[0].Document()
}

func TestMongoSubmissionRepository(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("create with suffix", func(mt *mtest.T) {
		repo := NewMongoSubmissionRepository(mt.Coll, time.Second)
		mt.AddMockResponses(mtest.CreateSuccessResponse())

		suffix := "campaignX"
		submission := &model.SurveySubmission{
			Answers:      map[string]model.AnswerValue{"0": model.Single("15-18")},
			SourceSuffix: &suffix,
		}
		require.NoError(mt, repo.Create(context.Background(), submission))

		_, err := primitive.ObjectIDFromHex(submission.ID)
		assert.NoError(mt, err)
		assert.False(mt, submission.SubmittedAt.IsZero())

		doc := insertedDocument(mt)
		assert.Equal(mt, "campaignX", doc.Lookup("sourceSuffix").StringValue())
		assert.Equal(mt, "15-18", doc.Lookup("answers", "0").StringValue())
		assert.Equal(mt, submission.ID, doc.Lookup("_id").ObjectID().Hex())
		assert.Equal(mt, bsontype.DateTime, doc.Lookup("submittedAt").Type)
	})

	mt.Run("create keeps multiple choice order and null suffix", func(mt *mtest.T) {
		repo := NewMongoSubmissionRepository(mt.Coll, time.Second)
		mt.AddMockResponses(mtest.CreateSuccessResponse())

		submission := &model.SurveySubmission{
			Answers: map[string]model.AnswerValue{"7": model.Multiple("ถุงยางอนามัย", "หลั่งนอก")},
		}
		require.NoError(mt, repo.Create(context.Background(), submission))

		doc := insertedDocument(mt)
		assert.Equal(mt, bsontype.Null, doc.Lookup("sourceSuffix").Type)

		values, err := doc.Lookup("answers", "7").Array().Values()
		require.NoError(mt, err)
		require.Len(mt, values, 2)
		assert.Equal(mt, "ถุงยางอนามัย", values[0].StringValue())
		assert.Equal(mt, "หลั่งนอก", values[1].StringValue())
	})

	mt.Run("create returns write error", func(mt *mtest.T) {
		repo := NewMongoSubmissionRepository(mt.Coll, time.Second)
		mt.AddMockResponses(mtest.CreateWriteErrorsResponse(mtest.WriteError{
			Index:   0,
			Code:    121,
			Message: "Document failed validation",
		}))

		submission := &model.SurveySubmission{
			Answers: map[string]model.AnswerValue{"0": model.Single("15-18")},
		}
		err := repo.Create(context.Background(), submission)
		require.Error(mt, err)
		assert.Contains(mt, err.Error(), "Document failed validation")
		assert.Empty(mt, submission.ID)
	})

	mt.Run("ensure indexes", func(mt *mtest.T) {
		repo := NewMongoSubmissionRepository(mt.Coll, time.Second)
		mt.AddMockResponses(mtest.CreateSuccessResponse())

		require.NoError(mt, repo.EnsureIndexes(context.Background()))

		started := mt.GetStartedEvent()
		require.NotNil(mt, started)
		assert.Equal(mt, "createIndexes", started.CommandName)
	})
}
