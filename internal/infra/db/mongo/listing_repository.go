package mongo

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"sync/atomic"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	domainlistings "rentcam/internal/domain/listings"
)

const listingsCollection = "listings"

type listingDocument struct {
	ID           string             `bson:"_id"`
	Kind         string             `bson:"kind"`
	Title        string             `bson:"title"`
	Description  string             `bson:"description"`
	Price        int64              `bson:"price"`
	Currency     string             `bson:"currency"`
	Location     locationDocument   `bson:"location"`
	Images       []string           `bson:"images"`
	OwnerID      string             `bson:"owner_id"`
	Available    bool               `bson:"available"`
	Bedrooms     int                `bson:"bedrooms"`
	Bathrooms    int                `bson:"bathrooms"`
	SquareMeters float64            `bson:"square_meters,omitempty"`
	Amenities    []amenityDocument  `bson:"amenities,omitempty"`
	Landmarks    []landmarkDocument `bson:"landmarks,omitempty"`
	Category     string             `bson:"category,omitempty"`
	Condition    string             `bson:"condition,omitempty"`
	ContactPhone string             `bson:"contact_phone,omitempty"`
	CreatedAt    time.Time          `bson:"created_at"`
	CreatedNanos int64              `bson:"created_ns"`
	Seq          int64              `bson:"seq"`
	UpdatedAt    time.Time          `bson:"updated_at"`
}

type locationDocument struct {
	City         string `bson:"city"`
	Neighborhood string `bson:"neighborhood"`
	StreetName   string `bson:"street_name,omitempty"`
	HouseName    string `bson:"house_name,omitempty"`
}

type amenityDocument struct {
	Name      string `bson:"name"`
	Available bool   `bson:"available"`
}

type landmarkDocument struct {
	Name           string `bson:"name"`
	Type           string `bson:"type"`
	DistanceMeters int    `bson:"distance_m"`
}

// ListingRepository stores listings in MongoDB. Filtering is pushed down to
// the server with the same semantics as domainlistings.Matches. BSON dates
// keep milliseconds only, so ordering uses the nanosecond creation time and
// an insertion sequence for ties.
type ListingRepository struct {
	col *mongo.Collection
	seq atomic.Int64
}

func NewListingRepository(ctx context.Context, db *mongo.Database) (*ListingRepository, error) {
	col := db.Collection(listingsCollection)
	indexes := []mongo.IndexModel{
		{Keys: listOrder()},
		{Keys: bson.D{{Key: "kind", Value: 1}, {Key: "price", Value: 1}}},
		{Keys: bson.D{{Key: "owner_id", Value: 1}}},
	}
	if _, err := col.Indexes().CreateMany(ctx, indexes); err != nil {
		return nil, fmt.Errorf("mongo: listing indexes: %w", err)
	}
	repo := &ListingRepository{col: col}
	repo.seq.Store(time.Now().UnixNano())
	return repo, nil
}

func (r *ListingRepository) ByID(ctx context.Context, id domainlistings.ListingID) (*domainlistings.Listing, error) {
	doc, err := r.document(ctx, id)
	if err != nil {
		return nil, err
	}
	return doc.toDomain(), nil
}

func (r *ListingRepository) document(ctx context.Context, id domainlistings.ListingID) (listingDocument, error) {
	var doc listingDocument
	if err := r.col.FindOne(ctx, bson.M{"_id": string(id)}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return listingDocument{}, domainlistings.ErrNotFound
		}
		return listingDocument{}, err
	}
	return doc, nil
}

func (r *ListingRepository) All(ctx context.Context) ([]*domainlistings.Listing, error) {
	return r.find(ctx, bson.M{})
}

func (r *ListingRepository) ListByFilter(ctx context.Context, spec domainlistings.FilterSpec) ([]*domainlistings.Listing, error) {
	return r.find(ctx, buildFilter(spec))
}

func (r *ListingRepository) Insert(ctx context.Context, listing *domainlistings.Listing) error {
	if _, err := r.col.InsertOne(ctx, newListingDocument(listing, r.seq.Add(1))); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domainlistings.ErrDuplicateEntry
		}
		return err
	}
	return nil
}

func (r *ListingRepository) UpdateFields(ctx context.Context, id domainlistings.ListingID, patch domainlistings.Patch, now time.Time) (*domainlistings.Listing, error) {
	doc, err := r.document(ctx, id)
	if err != nil {
		return nil, err
	}
	listing := doc.toDomain()
	if err := listing.Apply(patch, now); err != nil {
		return nil, err
	}
	res, err := r.col.ReplaceOne(ctx, bson.M{"_id": string(id)}, newListingDocument(listing, doc.Seq))
	if err != nil {
		return nil, err
	}
	if res.MatchedCount == 0 {
		return nil, domainlistings.ErrNotFound
	}
	return listing, nil
}

func (r *ListingRepository) DeleteByID(ctx context.Context, id domainlistings.ListingID) error {
	res, err := r.col.DeleteOne(ctx, bson.M{"_id": string(id)})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return domainlistings.ErrNotFound
	}
	return nil
}

func (r *ListingRepository) find(ctx context.Context, filter bson.M) ([]*domainlistings.Listing, error) {
	opts := options.Find().SetSort(listOrder())
	cur, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var docs []listingDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}
	out := make([]*domainlistings.Listing, 0, len(docs))
	for i := range docs {
		out = append(out, docs[i].toDomain())
	}
	return out, nil
}

// listOrder sorts newest first. Listings created at the same instant come out
// last inserted first, like the in-memory store.
func listOrder() bson.D {
	return bson.D{{Key: "created_ns", Value: -1}, {Key: "seq", Value: -1}}
}

// buildFilter translates a FilterSpec into a MongoDB query. Text clauses are
// case-insensitive substring matches.
func buildFilter(spec domainlistings.FilterSpec) bson.M {
	spec = spec.Normalized()
	filter := bson.M{}
	and := []bson.M{}

	switch spec.Type {
	case "", domainlistings.TypeAll:
	case domainlistings.TypeRent:
		filter["kind"] = string(domainlistings.KindRentalProperty)
	case domainlistings.TypeSale:
		filter["kind"] = bson.M{"$in": []string{string(domainlistings.KindSaleProperty), string(domainlistings.KindSaleItem)}}
	default:
		filter["kind"] = string(spec.Type)
	}

	price := bson.M{}
	if spec.MinPrice != nil {
		price["$gte"] = *spec.MinPrice
	}
	if spec.MaxPrice != nil {
		price["$lte"] = *spec.MaxPrice
	}
	if len(price) > 0 {
		filter["price"] = price
	}
	if spec.City != "" {
		filter["location.city"] = containsPattern(spec.City)
	}
	if spec.Neighborhood != "" {
		filter["location.neighborhood"] = containsPattern(spec.Neighborhood)
	}
	if spec.Bedrooms != nil {
		and = append(and,
			bson.M{"kind": bson.M{"$in": []string{string(domainlistings.KindRentalProperty), string(domainlistings.KindSaleProperty)}}},
			bson.M{"bedrooms": bson.M{"$gte": *spec.Bedrooms}},
		)
	}
	if len(spec.Amenities) > 0 {
		required := make([]bson.M, 0, len(spec.Amenities))
		for _, name := range spec.Amenities {
			required = append(required, bson.M{"$elemMatch": bson.M{"name": containsPattern(name), "available": true}})
		}
		filter["amenities"] = bson.M{"$all": required}
	}
	if spec.Query != "" {
		pattern := containsPattern(spec.Query)
		filter["$or"] = []bson.M{
			{"title": pattern},
			{"description": pattern},
			{"location.city": pattern},
			{"location.neighborhood": pattern},
		}
	}
	if spec.Category != "" {
		and = append(and,
			bson.M{"kind": string(domainlistings.KindSaleItem)},
			bson.M{"category": bson.M{"$regex": "^" + regexp.QuoteMeta(string(spec.Category)) + "$", "$options": "i"}},
		)
	}
	if spec.OwnerID != "" {
		filter["owner_id"] = string(spec.OwnerID)
	}
	if spec.AvailableOnly {
		filter["available"] = true
	}
	if len(and) > 0 {
		filter["$and"] = and
	}
	return filter
}

func containsPattern(term string) bson.M {
	return bson.M{"$regex": regexp.QuoteMeta(term), "$options": "i"}
}

func newListingDocument(l *domainlistings.Listing, seq int64) listingDocument {
	doc := listingDocument{
		ID:          string(l.ID),
		Kind:        string(l.Kind),
		Title:       l.Title,
		Description: l.Description,
		Price:       l.Price,
		Currency:    l.Currency,
		Location: locationDocument{
			City:         l.Location.City,
			Neighborhood: l.Location.Neighborhood,
			StreetName:   l.Location.StreetName,
			HouseName:    l.Location.HouseName,
		},
		Images:       append([]string{}, l.Images...),
		OwnerID:      string(l.OwnerID),
		Available:    l.Available,
		Bedrooms:     l.Bedrooms,
		Bathrooms:    l.Bathrooms,
		SquareMeters: l.SquareMeters,
		Category:     string(l.Category),
		Condition:    string(l.Condition),
		ContactPhone: l.ContactPhone,
		CreatedAt:    l.CreatedAt.UTC(),
		CreatedNanos: l.CreatedAt.UnixNano(),
		Seq:          seq,
		UpdatedAt:    l.UpdatedAt.UTC(),
	}
	for _, a := range l.Amenities {
		doc.Amenities = append(doc.Amenities, amenityDocument{Name: a.Name, Available: a.Available})
	}
	for _, lm := range l.Landmarks {
		doc.Landmarks = append(doc.Landmarks, landmarkDocument{Name: lm.Name, Type: string(lm.Type), DistanceMeters: lm.DistanceMeters})
	}
	return doc
}

func (d listingDocument) toDomain() *domainlistings.Listing {
	l := &domainlistings.Listing{
		ID:          domainlistings.ListingID(d.ID),
		Kind:        domainlistings.Kind(d.Kind),
		Title:       d.Title,
		Description: d.Description,
		Price:       d.Price,
		Currency:    d.Currency,
		Location: domainlistings.Location{
			City:         d.Location.City,
			Neighborhood: d.Location.Neighborhood,
			StreetName:   d.Location.StreetName,
			HouseName:    d.Location.HouseName,
		},
		Images:       append([]string(nil), d.Images...),
		OwnerID:      domainlistings.OwnerID(d.OwnerID),
		Available:    d.Available,
		Bedrooms:     d.Bedrooms,
		Bathrooms:    d.Bathrooms,
		SquareMeters: d.SquareMeters,
		Category:     domainlistings.Category(d.Category),
		Condition:    domainlistings.Condition(d.Condition),
		ContactPhone: d.ContactPhone,
		CreatedAt:    d.CreatedAt.UTC(),
		UpdatedAt:    d.UpdatedAt.UTC(),
	}
	if d.CreatedNanos != 0 {
		l.CreatedAt = time.Unix(0, d.CreatedNanos).UTC()
	}
	for _, a := range d.Amenities {
		l.Amenities = append(l.Amenities, domainlistings.Amenity{Name: a.Name, Available: a.Available})
	}
	for _, lm := range d.Landmarks {
		l.Landmarks = append(l.Landmarks, domainlistings.Landmark{Name: lm.Name, Type: domainlistings.LandmarkType(lm.Type), DistanceMeters: lm.DistanceMeters})
	}
	return l
}

var _ domainlistings.Repository = (*ListingRepository)(nil)
