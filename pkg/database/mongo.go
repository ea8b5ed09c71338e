package database

import (
	"context"
	"health_survey_backend/internal/config"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// InitMongo 连接失败或 ping 不通都直接返回错误，由调用方决定退出
func InitMongo(cfg *config.MongoConfig) (*mongo.Client, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Timeout)*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx,
		options.Client().ApplyURI(cfg.URI),
		options.Client().SetMaxConnIdleTime(time.Duration(cfg.IdleConnTimeout)*time.Second),
		options.Client().SetMaxPoolSize(cfg.MaxPoolSize),
	)
	if err != nil {
		return nil, err
	}

	pingCtx, pingCancel := context.WithTimeout(context.Background(), time.Duration(cfg.Timeout)*time.Second)
	defer pingCancel()

	if err := client.Ping(pingCtx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}

	log.Println("MongoDB connection established")
	return client, nil
}
