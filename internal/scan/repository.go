package scan

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"passgate-backend/internal/platform/store"
)

// Repository is the boundary to the document store. The store itself is an
// external collaborator; everything behind this interface may be swapped.
type Repository interface {
	// FindPass resolves a pass by primary _id and, on a miss, falls back to
	// a secondary query against the passId field. NOT_FOUND if neither hits.
	FindPass(ctx context.Context, id string) (*Pass, error)
	// FirstValidScan returns the earliest valid scans-log entry for the
	// pass, or nil when the pass has never been scanned valid.
	FirstValidScan(ctx context.Context, passID string) (*ScanRecord, error)
	// SetCheckedIn flips the pass document by primary id. NOT_FOUND when no
	// document matches.
	SetCheckedIn(ctx context.Context, docID string, at time.Time) error
	// SetCheckedInByField is the fallback update addressed by the secondary
	// passId field.
	SetCheckedInByField(ctx context.Context, passID string, at time.Time) error
	ReplaceMembers(ctx context.Context, docID string, members []Member) error
	// AppendScan inserts one scans-log entry. Entries are append-only.
	AppendScan(ctx context.Context, rec ScanRecord) error
	Ping(ctx context.Context) error
}

// ===== Mongo implementation =====

type MongoRepository struct {
	st     *store.Store
	passes *mongo.Collection
	scans  *mongo.Collection
}

func NewMongoRepository(st *store.Store) *MongoRepository {
	return &MongoRepository{
		st:     st,
		passes: st.Collection(store.CollPasses),
		scans:  st.Collection(store.CollScans),
	}
}

// classify maps driver transport failures to STORE_UNAVAILABLE so handlers
// can answer 503 instead of a generic server error.
func classify(err error) error {
	if err == nil {
		return nil
	}
	if mongo.IsNetworkError(err) || mongo.IsTimeout(err) || errors.Is(err, context.DeadlineExceeded) {
		return NewStoreUnavailableError(err)
	}
	return err
}

func (r *MongoRepository) FindPass(ctx context.Context, id string) (*Pass, error) {
	var p Pass
	err := r.passes.FindOne(ctx, bson.M{"_id": id}).Decode(&p)
	if err == nil {
		return &p, nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, classify(err)
	}

	// Secondary lookup by the passId field. Slower and sequential, but some
	// producers write documents whose _id differs from the printed pass id.
	err = r.passes.FindOne(ctx, bson.M{"passId": id}).Decode(&p)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, NewNotFoundError("pass " + id + " not found")
	}
	if err != nil {
		return nil, classify(err)
	}
	return &p, nil
}

func (r *MongoRepository) FirstValidScan(ctx context.Context, passID string) (*ScanRecord, error) {
	opts := options.FindOne().SetSort(bson.D{{Key: "scannedAt", Value: 1}})
	var rec ScanRecord
	err := r.scans.FindOne(ctx, bson.M{"passId": passID, "status": StatusValid}, opts).Decode(&rec)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, classify(err)
	}
	return &rec, nil
}

func (r *MongoRepository) SetCheckedIn(ctx context.Context, docID string, at time.Time) error {
	res, err := r.passes.UpdateByID(ctx, docID, bson.M{
		"$set": bson.M{"checkedIn": true, "checkedInAt": at},
	})
	if err != nil {
		return classify(err)
	}
	if res.MatchedCount == 0 {
		return NewNotFoundError("pass " + docID + " not found")
	}
	return nil
}

func (r *MongoRepository) SetCheckedInByField(ctx context.Context, passID string, at time.Time) error {
	res, err := r.passes.UpdateOne(ctx, bson.M{"passId": passID}, bson.M{
		"$set": bson.M{"checkedIn": true, "checkedInAt": at},
	})
	if err != nil {
		return classify(err)
	}
	if res.MatchedCount == 0 {
		return NewNotFoundError("pass " + passID + " not found")
	}
	return nil
}

func (r *MongoRepository) ReplaceMembers(ctx context.Context, docID string, members []Member) error {
	res, err := r.passes.UpdateByID(ctx, docID, bson.M{
		"$set": bson.M{"teamSnapshot.members": members},
	})
	if err != nil {
		return classify(err)
	}
	if res.MatchedCount == 0 {
		return NewNotFoundError("pass " + docID + " not found")
	}
	return nil
}

func (r *MongoRepository) AppendScan(ctx context.Context, rec ScanRecord) error {
	_, err := r.scans.InsertOne(ctx, rec)
	return classify(err)
}

func (r *MongoRepository) Ping(ctx context.Context) error {
	return classify(r.st.Ping(ctx))
}
