package store

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"passgate-backend/internal/platform/config"
)

// Collection names shared by the features built on the document store.
const (
	CollPasses     = "passes"
	CollScans      = "scans"
	CollAttendance = "eventAttendance"
	CollAppUsers   = "appUsers"
)

type Store struct {
	client  *mongo.Client
	db      *mongo.Database
	timeout time.Duration
}

func Connect(ctx context.Context, cfg config.MongoConfig) (*Store, error) {
	timeout := cfg.Timeout.Std()
	opts := options.Client().
		ApplyURI(cfg.URI).
		SetServerSelectionTimeout(timeout).
		SetConnectTimeout(timeout)

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("mongo ping: %w", err)
	}

	return &Store{
		client:  client,
		db:      client.Database(cfg.Database),
		timeout: timeout,
	}, nil
}

func (s *Store) Collection(name string) *mongo.Collection {
	return s.db.Collection(name)
}

func (s *Store) Ping(ctx context.Context) error {
	pingCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	return s.client.Ping(pingCtx, readpref.Primary())
}

func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}
