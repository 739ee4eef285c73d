package store

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/avvvet/card-services/internal/cardsvc/models"
)

const CardCollection = "cards"

type MongoCardStore struct {
	coll *mongo.Collection
}

func NewMongoCardStore(db *mongo.Database) *MongoCardStore {
	return &MongoCardStore{coll: db.Collection(CardCollection)}
}

func (s *MongoCardStore) FindByName(ctx context.Context, name string) (*models.CardInDb, error) {
	var card models.CardInDb
	err := s.coll.FindOne(ctx, bson.M{"name": name}).Decode(&card)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find card by name: %w", err)
	}
	return &card, nil
}

func (s *MongoCardStore) DistinctNames(ctx context.Context) ([]string, error) {
	values, err := s.coll.Distinct(ctx, "name", bson.M{})
	if err != nil {
		return nil, fmt.Errorf("failed to list card names: %w", err)
	}

	names := make([]string, 0, len(values))
	for _, v := range values {
		if name, ok := v.(string); ok {
			names = append(names, name)
		}
	}
	return names, nil
}

// Create relies on the unique index on name; it never upserts.
func (s *MongoCardStore) Create(ctx context.Context, card models.CardInDb) (*models.CardInDb, error) {
	_, err := s.coll.InsertOne(ctx, card)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateName, card.Name)
		}
		return nil, fmt.Errorf("failed to create card: %w", err)
	}
	return &card, nil
}

func (s *MongoCardStore) FindOneAndUpdate(ctx context.Context, patch models.CardPatch) (*models.CardInDb, error) {
	set := bson.D{}
	for _, c := range patch.Changes() {
		set = append(set, bson.E{Key: c.Field, Value: c.Value})
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var card models.CardInDb
	err := s.coll.FindOneAndUpdate(ctx, bson.M{"name": patch.Name}, bson.D{{Key: "$set", Value: set}}, opts).Decode(&card)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to update card: %w", err)
	}
	return &card, nil
}
