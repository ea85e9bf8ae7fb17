package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Product is a catalog entry in the "products" collection. CustomID is the
// client-facing identifier and carries a unique index.
type Product struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	CustomID  string             `bson:"customId" json:"customId"`
	Name      string             `bson:"name" json:"name"`
	Color     string             `bson:"color" json:"color"`
	Variety   string             `bson:"variety" json:"variety"`
	Price     float64            `bson:"price" json:"price"`
	Age       string             `bson:"age,omitempty" json:"age,omitempty"`
	Size      string             `bson:"size,omitempty" json:"size,omitempty"`
	Material  string             `bson:"material" json:"material"`
	Images    []string           `bson:"images" json:"images"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// ProductUpdate carries the mutable product fields for an update. Images is
// only replaced when a new upload batch is present.
type ProductUpdate struct {
	Name     string   `bson:"name"`
	Color    string   `bson:"color"`
	Variety  string   `bson:"variety"`
	Price    float64  `bson:"price"`
	Age      string   `bson:"age,omitempty"`
	Size     string   `bson:"size,omitempty"`
	Material string   `bson:"material"`
	Images   []string `bson:"images,omitempty"`
}
