package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/chrisdamba/couriermatch/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// DriverPhotoRepository is the MongoDB implementation of the photo catalog.
type DriverPhotoRepository struct {
	client     *mongo.Client
	collection *mongo.Collection
}

// NewDriverPhotoRepository binds the repository to a collection of db.
func NewDriverPhotoRepository(db *mongo.Database, collection string) *DriverPhotoRepository {
	return &DriverPhotoRepository{client: db.Client(), collection: db.Collection(collection)}
}

// Connect dials uri and pings the primary before returning.
func Connect(ctx context.Context, uri, database, collection string) (*DriverPhotoRepository, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongo: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("failed to ping mongo: %w", err)
	}
	return NewDriverPhotoRepository(client.Database(database), collection), nil
}

func (r *DriverPhotoRepository) ListActive(ctx context.Context) ([]models.DriverPhoto, error) {
	opts := options.Find().SetProjection(bson.M{"name": 1, "photo_url": 1})
	cursor, err := r.collection.Find(ctx, bson.M{"is_active": true}, opts)
	if err != nil {
		return nil, fmt.Errorf("query active driver photos: %w", err)
	}
	defer cursor.Close(ctx)

	photos := make([]models.DriverPhoto, 0)
	for cursor.Next(ctx) {
		var doc models.DriverPhotoRecord
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		photos = append(photos, models.DriverPhoto{Name: doc.Name, PhotoURL: doc.PhotoURL})
	}
	return photos, cursor.Err()
}

func (r *DriverPhotoRepository) GetAll(ctx context.Context) ([]*models.DriverPhotoRecord, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	records := make([]*models.DriverPhotoRecord, 0)
	for cursor.Next(ctx) {
		var doc models.DriverPhotoRecord
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		records = append(records, &doc)
	}
	return records, cursor.Err()
}

func (r *DriverPhotoRepository) GetByID(ctx context.Context, id string) (*models.DriverPhotoRecord, error) {
	var doc models.DriverPhotoRecord
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &doc, nil
}

func (r *DriverPhotoRepository) Create(ctx context.Context, record *models.DriverPhotoRecord) error {
	_, err := r.collection.InsertOne(ctx, record)
	return err
}

func (r *DriverPhotoRepository) BulkCreate(ctx context.Context, records []*models.DriverPhotoRecord) error {
	if len(records) == 0 {
		return nil
	}
	docs := make([]interface{}, 0, len(records))
	for _, record := range records {
		docs = append(docs, record)
	}
	_, err := r.collection.InsertMany(ctx, docs)
	return err
}

func (r *DriverPhotoRepository) Update(ctx context.Context, record *models.DriverPhotoRecord) error {
	update := bson.M{"$set": bson.M{
		"name":       record.Name,
		"photo_url":  record.PhotoURL,
		"is_active":  record.IsActive,
		"updated_at": time.Now().UTC(),
	}}
	res, err := r.collection.UpdateByID(ctx, record.ID, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return models.ErrNotFound
	}
	return nil
}

func (r *DriverPhotoRepository) Delete(ctx context.Context, id string) error {
	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return models.ErrNotFound
	}
	return nil
}

func (r *DriverPhotoRepository) Count(ctx context.Context) (int, error) {
	n, err := r.collection.CountDocuments(ctx, bson.M{})
	return int(n), err
}

func (r *DriverPhotoRepository) DeleteAll(ctx context.Context) error {
	_, err := r.collection.DeleteMany(ctx, bson.M{})
	return err
}

func (r *DriverPhotoRepository) Close(ctx context.Context) error {
	return r.client.Disconnect(ctx)
}
