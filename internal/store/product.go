package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/wintercraft/storefront/internal/models"
)

// ErrProductNotFound is returned when no product matches the custom id.
var ErrProductNotFound = errors.New("product not found")

// ErrProductExists maps the unique customId index violation.
var ErrProductExists = errors.New("product already exists")

// ProductStore persists catalog entries keyed by their customId.
type ProductStore struct {
	coll *mongo.Collection
}

func NewProductStore(db *mongo.Database) *ProductStore {
	return &ProductStore{coll: db.Collection(productsCollection)}
}

func (s *ProductStore) EnsureIndexes(ctx context.Context) error {
	_, err := s.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "customId", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("create customId index: %w", err)
	}
	return nil
}

func (s *ProductStore) Insert(ctx context.Context, p *models.Product) error {
	now := time.Now()
	p.CreatedAt = now
	p.UpdatedAt = now
	_, err := s.coll.InsertOne(ctx, p)
	if mongo.IsDuplicateKeyError(err) {
		return ErrProductExists
	}
	if err != nil {
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}

func (s *ProductStore) List(ctx context.Context) ([]models.Product, error) {
	cursor, err := s.coll.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer cursor.Close(ctx)

	products := []models.Product{}
	if err := cursor.All(ctx, &products); err != nil {
		return nil, fmt.Errorf("decode products: %w", err)
	}
	return products, nil
}

func (s *ProductStore) GetByCustomID(ctx context.Context, customID string) (*models.Product, error) {
	var p models.Product
	err := s.coll.FindOne(ctx, bson.M{"customId": customID}).Decode(&p)
	if err == mongo.ErrNoDocuments {
		return nil, ErrProductNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find product: %w", err)
	}
	return &p, nil
}

func (s *ProductStore) UpdateByCustomID(ctx context.Context, customID string, upd models.ProductUpdate) (*models.Product, error) {
	set := bson.M{
		"name":      upd.Name,
		"color":     upd.Color,
		"variety":   upd.Variety,
		"price":     upd.Price,
		"age":       upd.Age,
		"size":      upd.Size,
		"material":  upd.Material,
		"updatedAt": time.Now(),
	}
	if upd.Images != nil {
		set["images"] = upd.Images
	}

	var p models.Product
	err := s.coll.FindOneAndUpdate(ctx,
		bson.M{"customId": customID},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&p)
	if err == mongo.ErrNoDocuments {
		return nil, ErrProductNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("update product: %w", err)
	}
	return &p, nil
}

func (s *ProductStore) DeleteByCustomID(ctx context.Context, customID string) error {
	res, err := s.coll.DeleteOne(ctx, bson.M{"customId": customID})
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	if res.DeletedCount == 0 {
		return ErrProductNotFound
	}
	return nil
}
