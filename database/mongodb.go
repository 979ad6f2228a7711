package database

import (
	"EventManagement/configs"
	"context"
	"fmt"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type MongoDBConfig struct {
	Name string
	URI  string
}

func NewMongoDBConfig() *MongoDBConfig {
	return &MongoDBConfig{
		Name: configs.GetDatabaseName(),
		URI:  configs.GetDatabaseURI(),
	}
}

var (
	client    *mongo.Client
	db        *mongo.Database
	mongoOnce sync.Once
)

func ConnectMongo() error {
	var err error
	mongoOnce.Do(func() {
		mongoDBConfig := NewMongoDBConfig()
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		client, err = mongo.Connect(ctx, options.Client().ApplyURI(mongoDBConfig.URI))
		if err != nil {
			err = fmt.Errorf("lỗi khi kết nối MongoDB: %w", err)
			return
		}

		if err = client.Ping(ctx, nil); err != nil {
			err = fmt.Errorf("không thể ping tới MongoDB: %w", err)
			return
		}

		fmt.Println("Đã kết nối MongoDB thành công!")
		db = client.Database(mongoDBConfig.Name)
	})

	return err
}

func GetDB() *mongo.Database {
	return db
}
