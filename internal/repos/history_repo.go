package repos

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"bellashop/internal/domain"
)

//go:generate mockgen -destination=mocks/history_repo.go -package=mocks bellashop/internal/repos HistoryRepo

const CollectionStatusHistory = "status_history"

// HistoryRepo keeps an append-only trail of product status changes.
type HistoryRepo interface {
	Record(ctx context.Context, ev domain.StatusEvent) error
	List(ctx context.Context, productID int64) ([]domain.StatusEvent, error)
}

// ConnectMongo dials uri and checks the server is reachable.
func ConnectMongo(ctx context.Context, uri string) (*mongo.Client, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping mongo: %w", err)
	}
	return client, nil
}

type mongoHistory struct {
	collection *mongo.Collection
}

func NewMongoHistory(db *mongo.Database) HistoryRepo {
	return &mongoHistory{collection: db.Collection(CollectionStatusHistory)}
}

func (r *mongoHistory) Record(ctx context.Context, ev domain.StatusEvent) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if _, err := r.collection.InsertOne(ctx, ev); err != nil {
		return fmt.Errorf("insert status history: %w", err)
	}
	return nil
}

func (r *mongoHistory) List(ctx context.Context, productID int64) ([]domain.StatusEvent, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "at", Value: 1}})
	cur, err := r.collection.Find(ctx, bson.M{"product_id": productID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := []domain.StatusEvent{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

type nopHistory struct{}

// NopHistory is used when no MONGO_URI is configured.
func NopHistory() HistoryRepo { return nopHistory{} }

func (nopHistory) Record(context.Context, domain.StatusEvent) error { return nil }

func (nopHistory) List(context.Context, int64) ([]domain.StatusEvent, error) {
	return []domain.StatusEvent{}, nil
}
