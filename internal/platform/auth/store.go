package auth

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"passgate-backend/internal/platform/store"
)

type AppUser struct {
	ID           string `bson:"_id"`
	Name         string `bson:"name"`
	Email        string `bson:"email"`
	PasswordHash string `bson:"passwordHash"`
}

type UserStore interface {
	// GetByEmail returns (nil, nil) when no user matches.
	GetByEmail(ctx context.Context, email string) (*AppUser, error)
}

type Store struct {
	coll *mongo.Collection
}

func NewStore(st *store.Store) *Store {
	return &Store{coll: st.Collection(store.CollAppUsers)}
}

func (s *Store) GetByEmail(ctx context.Context, email string) (*AppUser, error) {
	var u AppUser
	err := s.coll.FindOne(ctx, bson.M{"email": email}).Decode(&u)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		if mongo.IsNetworkError(err) || mongo.IsTimeout(err) {
			return nil, ErrStoreUnavailable
		}
		return nil, err
	}
	return &u, nil
}
