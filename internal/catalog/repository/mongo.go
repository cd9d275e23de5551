package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/treeshop/catalog/internal/catalog"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// MongoRepo implements Repository on a MongoDB collection. Item ids are the
// hex form of the document ObjectID assigned on insert.
type MongoRepo struct {
	col *mongo.Collection
}

type mongoItem struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	Name        string             `bson:"name"`
	Description string             `bson:"description"`
	ImageURL    string             `bson:"imageUrl,omitempty"`
}

func (d mongoItem) item() *catalog.Item {
	return &catalog.Item{ID: d.ID.Hex(), Name: d.Name, Description: d.Description, ImageURL: d.ImageURL}
}

func NewMongoRepo(col *mongo.Collection) *MongoRepo {
	return &MongoRepo{col: col}
}

// objectID parses an item id. Ids that are not valid ObjectIDs cannot exist
// in the collection and are reported as not found.
func objectID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, catalog.ErrNotFound
	}
	return oid, nil
}

// patchDocument builds the $set update for p.
func patchDocument(p catalog.Patch) bson.M {
	set := bson.M{"name": p.Name, "description": p.Description}
	if p.ImageURL != nil {
		set["imageUrl"] = *p.ImageURL
	}
	return bson.M{"$set": set}
}

func (m *MongoRepo) Add(ctx context.Context, item *catalog.Item) (string, error) {
	doc := mongoItem{Name: item.Name, Description: item.Description, ImageURL: item.ImageURL}
	res, err := m.col.InsertOne(ctx, doc)
	if err != nil {
		return "", err
	}
	oid, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return "", fmt.Errorf("unexpected inserted id type %T", res.InsertedID)
	}
	return oid.Hex(), nil
}

func (m *MongoRepo) Get(ctx context.Context, id string) (*catalog.Item, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}
	var d mongoItem
	if err := m.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&d); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, catalog.ErrNotFound
		}
		return nil, err
	}
	return d.item(), nil
}

func (m *MongoRepo) List(ctx context.Context) ([]*catalog.Item, error) {
	cur, err := m.col.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	out := []*catalog.Item{}
	for cur.Next(ctx) {
		var d mongoItem
		if err := cur.Decode(&d); err != nil {
			return nil, err
		}
		out = append(out, d.item())
	}
	return out, cur.Err()
}

func (m *MongoRepo) Update(ctx context.Context, id string, p catalog.Patch) error {
	oid, err := objectID(id)
	if err != nil {
		return err
	}
	res, err := m.col.UpdateOne(ctx, bson.M{"_id": oid}, patchDocument(p))
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return catalog.ErrNotFound
	}
	return nil
}

func (m *MongoRepo) Delete(ctx context.Context, id string) error {
	oid, err := objectID(id)
	if err != nil {
		// nothing stored under a malformed id
		return nil
	}
	_, err = m.col.DeleteOne(ctx, bson.M{"_id": oid})
	return err
}
