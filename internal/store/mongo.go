// Package store holds the MongoDB-backed persistence for accounts and
// products, plus the Redis product-list cache. Uniqueness and atomicity rely
// on the database (unique indexes, single-document updates), not on
// application locks.
package store

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/wintercraft/storefront/internal/auth"
	"github.com/wintercraft/storefront/internal/models"
)

const (
	accountsCollection = "accounts"
	productsCollection = "products"
)

// Connect opens a Mongo client and verifies the connection with a ping.
func Connect(ctx context.Context, uri string) (*mongo.Client, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("mongo ping: %w", err)
	}
	return client, nil
}

// AccountStore implements auth.AccountStore on a Mongo collection.
type AccountStore struct {
	coll *mongo.Collection
}

// NewAccountStore binds the store to db's accounts collection.
func NewAccountStore(db *mongo.Database) *AccountStore {
	return &AccountStore{coll: db.Collection(accountsCollection)}
}

// EnsureIndexes creates the unique email index. Sign-up correctness depends
// on it; call during startup, before serving.
func (s *AccountStore) EnsureIndexes(ctx context.Context) error {
	_, err := s.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("create email index: %w", err)
	}
	return nil
}

// secretFields are excluded from default reads, mirroring the schema-level
// select:false the original model used for the password.
var secretFields = bson.M{"password": 0, "resetPasswordOTP": 0, "resetPasswordExpires": 0}

func (s *AccountStore) FindByEmail(ctx context.Context, email string) (*models.Account, error) {
	var acct models.Account
	err := s.coll.FindOne(ctx, bson.M{"email": email},
		options.FindOne().SetProjection(secretFields)).Decode(&acct)
	if err == mongo.ErrNoDocuments {
		return nil, auth.ErrAccountNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find account: %w", err)
	}
	return &acct, nil
}

func (s *AccountStore) FindByEmailWithSecrets(ctx context.Context, email string) (*models.Account, error) {
	var acct models.Account
	err := s.coll.FindOne(ctx, bson.M{"email": email}).Decode(&acct)
	if err == mongo.ErrNoDocuments {
		return nil, auth.ErrAccountNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find account: %w", err)
	}
	return &acct, nil
}

func (s *AccountStore) Create(ctx context.Context, acct *models.Account) error {
	res, err := s.coll.InsertOne(ctx, acct)
	if mongo.IsDuplicateKeyError(err) {
		return auth.ErrAccountExists
	}
	if err != nil {
		return fmt.Errorf("insert account: %w", err)
	}
	if id, ok := res.InsertedID.(primitive.ObjectID); ok {
		acct.ID = id
	}
	return nil
}

func (s *AccountStore) SetResetOTP(ctx context.Context, id primitive.ObjectID, otpHash string, expiresAt time.Time) error {
	_, err := s.coll.UpdateByID(ctx, id, bson.M{
		"$set": bson.M{
			"resetPasswordOTP":     otpHash,
			"resetPasswordExpires": expiresAt,
			"updatedAt":            time.Now(),
		},
	})
	if err != nil {
		return fmt.Errorf("set reset otp: %w", err)
	}
	return nil
}

// CompletePasswordReset swaps the password hash and clears the OTP pair in a
// single document update, so the three effects apply together or not at all.
func (s *AccountStore) CompletePasswordReset(ctx context.Context, id primitive.ObjectID, passwordHash string) error {
	_, err := s.coll.UpdateByID(ctx, id, bson.M{
		"$set": bson.M{
			"password":  passwordHash,
			"updatedAt": time.Now(),
		},
		"$unset": bson.M{
			"resetPasswordOTP":     "",
			"resetPasswordExpires": "",
		},
	})
	if err != nil {
		return fmt.Errorf("complete reset: %w", err)
	}
	return nil
}
