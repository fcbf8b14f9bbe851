package mongo

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	domainlistings "rentcam/internal/domain/listings"
	domainreviews "rentcam/internal/domain/reviews"
)

const reviewsCollection = "reviews"

type reviewDocument struct {
	ID           string    `bson:"_id"`
	ListingID    string    `bson:"listing_id"`
	AuthorID     string    `bson:"author_id"`
	Rating       int       `bson:"rating"`
	Comment      string    `bson:"comment,omitempty"`
	CreatedAt    time.Time `bson:"created_at"`
	CreatedNanos int64     `bson:"created_ns"`
	Seq          int64     `bson:"seq"`
}

// ReviewRepository stores reviews in MongoDB. A unique index on
// (listing_id, author_id) enforces one review per author and listing.
type ReviewRepository struct {
	col *mongo.Collection
	seq atomic.Int64
}

func NewReviewRepository(ctx context.Context, db *mongo.Database) (*ReviewRepository, error) {
	col := db.Collection(reviewsCollection)
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "listing_id", Value: 1}, {Key: "author_id", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{Keys: append(bson.D{{Key: "listing_id", Value: 1}}, listOrder()...)},
	}
	if _, err := col.Indexes().CreateMany(ctx, indexes); err != nil {
		return nil, fmt.Errorf("mongo: review indexes: %w", err)
	}
	repo := &ReviewRepository{col: col}
	repo.seq.Store(time.Now().UnixNano())
	return repo, nil
}

func (r *ReviewRepository) Add(ctx context.Context, review *domainreviews.Review) error {
	if _, err := r.col.InsertOne(ctx, newReviewDocument(review, r.seq.Add(1))); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domainreviews.ErrDuplicateReview
		}
		return err
	}
	return nil
}

func (r *ReviewRepository) ListByListing(ctx context.Context, listingID domainlistings.ListingID) ([]*domainreviews.Review, error) {
	cur, err := r.col.Find(ctx, bson.M{"listing_id": string(listingID)}, options.Find().SetSort(listOrder()))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var docs []reviewDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}
	out := make([]*domainreviews.Review, 0, len(docs))
	for _, doc := range docs {
		out = append(out, doc.toDomain())
	}
	return out, nil
}

func newReviewDocument(review *domainreviews.Review, seq int64) reviewDocument {
	return reviewDocument{
		ID:           string(review.ID),
		ListingID:    string(review.ListingID),
		AuthorID:     review.AuthorID,
		Rating:       review.Rating,
		Comment:      review.Comment,
		CreatedAt:    review.CreatedAt.UTC(),
		CreatedNanos: review.CreatedAt.UnixNano(),
		Seq:          seq,
	}
}

func (d reviewDocument) toDomain() *domainreviews.Review {
	created := d.CreatedAt.UTC()
	if d.CreatedNanos != 0 {
		created = time.Unix(0, d.CreatedNanos).UTC()
	}
	return &domainreviews.Review{
		ID:        domainreviews.ID(d.ID),
		ListingID: domainlistings.ListingID(d.ListingID),
		AuthorID:  d.AuthorID,
		Rating:    d.Rating,
		Comment:   d.Comment,
		CreatedAt: created,
	}
}

var _ domainreviews.Repository = (*ReviewRepository)(nil)
