package attendance

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"passgate-backend/internal/platform/store"
)

type Store interface {
	// Exists is the point query of the check-then-write dedup. Keyed on
	// (passId, eventId, attendanceDate); no storage-level unique constraint
	// backs it.
	Exists(ctx context.Context, passID, eventID, date string) (bool, error)
	Insert(ctx context.Context, rec Record) error
	List(ctx context.Context, q ListQuery) ([]Record, error)
}

type MongoStore struct {
	coll *mongo.Collection
}

func NewMongoStore(st *store.Store) *MongoStore {
	return &MongoStore{coll: st.Collection(store.CollAttendance)}
}

func classify(err error) error {
	if err == nil {
		return nil
	}
	if mongo.IsNetworkError(err) || mongo.IsTimeout(err) || errors.Is(err, context.DeadlineExceeded) {
		return ErrUnavailable(err.Error())
	}
	return err
}

func (s *MongoStore) Exists(ctx context.Context, passID, eventID, date string) (bool, error) {
	filter := bson.M{"passId": passID, "eventId": eventID, "attendanceDate": date}
	err := s.coll.FindOne(ctx, filter, options.FindOne().SetProjection(bson.M{"_id": 1})).Err()
	if errors.Is(err, mongo.ErrNoDocuments) {
		return false, nil
	}
	if err != nil {
		return false, classify(err)
	}
	return true, nil
}

func (s *MongoStore) Insert(ctx context.Context, rec Record) error {
	_, err := s.coll.InsertOne(ctx, rec)
	return classify(err)
}

func (s *MongoStore) List(ctx context.Context, q ListQuery) ([]Record, error) {
	filter := bson.M{}
	if q.EventID != "" {
		filter["eventId"] = q.EventID
	}
	if q.Date != "" {
		filter["attendanceDate"] = q.Date
	}

	limit := q.Limit
	if limit <= 0 {
		limit = DefaultPageLimit
	}
	if limit > MaxPageLimit {
		limit = MaxPageLimit
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "scannedAt", Value: -1}}).
		SetLimit(int64(limit))

	cur, err := s.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, classify(err)
	}
	defer cur.Close(ctx)

	var out []Record
	if err := cur.All(ctx, &out); err != nil {
		return nil, classify(err)
	}
	return out, nil
}
