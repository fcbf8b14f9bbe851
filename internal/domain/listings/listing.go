package listings

import (
	"context"
	"errors"
	"strings"
	"time"

	"rentcam/internal/domain/shared/events"
	"rentcam/internal/domain/shared/money"
)

var (
	ErrNotFound       = errors.New("listings: listing not found")
	ErrIDRequired     = errors.New("listings: id is required")
	ErrOwnerRequired  = errors.New("listings: owner is required")
	ErrUnknownKind    = errors.New("listings: unknown listing kind")
	ErrNegativePrice  = errors.New("listings: price must be non-negative")
	ErrNegativeCount  = errors.New("listings: room counts must be non-negative")
	ErrNotOwner       = errors.New("listings: only the owner may change a listing")
	ErrNotSaleItem    = errors.New("listings: field only applies to sale items")
	ErrNotAProperty   = errors.New("listings: field only applies to properties")
	ErrEmptyPhotoURL  = errors.New("listings: photo url is required")
	ErrDuplicateEntry = errors.New("listings: listing already exists")
)

type ListingID string
type OwnerID string

// Kind discriminates the listing union.
type Kind string

const (
	KindRentalProperty Kind = "rental-property"
	KindSaleProperty   Kind = "sale-property"
	KindSaleItem       Kind = "sale-item"
)

func (k Kind) Valid() bool {
	switch k {
	case KindRentalProperty, KindSaleProperty, KindSaleItem:
		return true
	}
	return false
}

// IsProperty reports whether the kind carries rooms and amenities.
func (k Kind) IsProperty() bool {
	return k == KindRentalProperty || k == KindSaleProperty
}

// Category applies to sale items only.
type Category string

const (
	CategoryLand        Category = "land"
	CategoryHouse       Category = "house"
	CategoryFurniture   Category = "furniture"
	CategoryElectronics Category = "electronics"
	CategoryVehicles    Category = "vehicles"
	CategoryBusiness    Category = "business"
)

// Condition applies to sale items only.
type Condition string

const (
	ConditionNew       Condition = "new"
	ConditionExcellent Condition = "excellent"
	ConditionGood      Condition = "good"
	ConditionFair      Condition = "fair"
	ConditionPoor      Condition = "poor"
)

type Location struct {
	City         string
	Neighborhood string
	StreetName   string
	HouseName    string
}

// Amenity present with Available=false is distinct from an absent amenity,
// but both fail an amenity filter.
type Amenity struct {
	Name      string
	Available bool
}

type LandmarkType string

const (
	LandmarkSchool    LandmarkType = "school"
	LandmarkHospital  LandmarkType = "hospital"
	LandmarkMarket    LandmarkType = "market"
	LandmarkTransport LandmarkType = "transport"
)

type Landmark struct {
	Name           string
	Type           LandmarkType
	DistanceMeters int
}

type Listing struct {
	ID           ListingID
	Kind         Kind
	Title        string
	Description  string
	Price        int64
	Currency     string
	Location     Location
	Images       []string
	OwnerID      OwnerID
	Available    bool
	Bedrooms     int
	Bathrooms    int
	SquareMeters float64
	Amenities    []Amenity
	Landmarks    []Landmark
	Category     Category
	Condition    Condition
	ContactPhone string
	CreatedAt    time.Time
	UpdatedAt    time.Time
	events.EventRecorder
}

// Repository is the persistence port for listings. All returns the collection
// most-recent-first; ListByFilter returns matches in the same order as Search.
type Repository interface {
	ByID(ctx context.Context, id ListingID) (*Listing, error)
	All(ctx context.Context) ([]*Listing, error)
	ListByFilter(ctx context.Context, spec FilterSpec) ([]*Listing, error)
	Insert(ctx context.Context, listing *Listing) error
	UpdateFields(ctx context.Context, id ListingID, patch Patch, now time.Time) (*Listing, error)
	DeleteByID(ctx context.Context, id ListingID) error
}

type CreateListingParams struct {
	ID           ListingID
	Kind         Kind
	Title        string
	Description  string
	Price        int64
	Currency     string
	Location     Location
	Images       []string
	OwnerID      OwnerID
	Available    bool
	Bedrooms     int
	Bathrooms    int
	SquareMeters float64
	Amenities    []Amenity
	Landmarks    []Landmark
	Category     Category
	Condition    Condition
	ContactPhone string
	Now          time.Time
}

// NewListing builds a listing value. Form-level validation (required titles and
// the like) is left to callers; only structural invariants are checked here.
func NewListing(params CreateListingParams) (*Listing, error) {
	if strings.TrimSpace(string(params.ID)) == "" {
		return nil, ErrIDRequired
	}
	if strings.TrimSpace(string(params.OwnerID)) == "" {
		return nil, ErrOwnerRequired
	}
	if !params.Kind.Valid() {
		return nil, ErrUnknownKind
	}
	if params.Price < 0 {
		return nil, ErrNegativePrice
	}
	if params.Bedrooms < 0 || params.Bathrooms < 0 {
		return nil, ErrNegativeCount
	}
	currency := strings.ToUpper(strings.TrimSpace(params.Currency))
	if currency == "" {
		currency = money.DefaultCurrency
	}
	now := params.Now
	if now.IsZero() {
		now = time.Now()
	}
	now = now.UTC()

	listing := &Listing{
		ID:           params.ID,
		Kind:         params.Kind,
		Title:        strings.TrimSpace(params.Title),
		Description:  strings.TrimSpace(params.Description),
		Price:        params.Price,
		Currency:     currency,
		Location:     trimLocation(params.Location),
		Images:       append([]string(nil), params.Images...),
		OwnerID:      params.OwnerID,
		Available:    params.Available,
		ContactPhone: strings.TrimSpace(params.ContactPhone),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if params.Kind.IsProperty() {
		listing.Bedrooms = params.Bedrooms
		listing.Bathrooms = params.Bathrooms
		listing.SquareMeters = params.SquareMeters
		listing.Amenities = append([]Amenity(nil), params.Amenities...)
		listing.Landmarks = append([]Landmark(nil), params.Landmarks...)
	} else {
		listing.Category = Category(strings.ToLower(strings.TrimSpace(string(params.Category))))
		listing.Condition = Condition(strings.ToLower(strings.TrimSpace(string(params.Condition))))
	}

	listing.Record(ListingCreatedEvent{
		ListingID: listing.ID,
		OwnerID:   listing.OwnerID,
		Kind:      listing.Kind,
		Title:     listing.Title,
		City:      listing.Location.City,
		Price:     listing.Price,
		At:        listing.CreatedAt,
	})
	return listing, nil
}

// Money returns the listing price with its currency.
func (l *Listing) Money() money.Money {
	return money.Money{Amount: l.Price, Currency: l.Currency}
}

// OwnedBy reports whether owner posted the listing.
func (l *Listing) OwnedBy(owner OwnerID) bool {
	return l != nil && owner != "" && l.OwnerID == owner
}

// Patch carries the editable fields of a listing; nil means unchanged.
type Patch struct {
	Title        *string
	Description  *string
	Price        *int64
	Location     *Location
	Images       []string
	AddImages    []string
	Available    *bool
	Bedrooms     *int
	Bathrooms    *int
	SquareMeters *float64
	Amenities    []Amenity
	Condition    *Condition
	ContactPhone *string
}

// Empty reports whether the patch changes nothing.
func (p Patch) Empty() bool {
	return p.Title == nil && p.Description == nil && p.Price == nil && p.Location == nil &&
		p.Images == nil && len(p.AddImages) == 0 && p.Available == nil && p.Bedrooms == nil &&
		p.Bathrooms == nil && p.SquareMeters == nil && p.Amenities == nil && p.Condition == nil &&
		p.ContactPhone == nil
}

// Apply validates and applies the patch. The listing is left untouched when an
// error is returned.
func (l *Listing) Apply(p Patch, now time.Time) error {
	if p.Price != nil && *p.Price < 0 {
		return ErrNegativePrice
	}
	if (p.Bedrooms != nil && *p.Bedrooms < 0) || (p.Bathrooms != nil && *p.Bathrooms < 0) {
		return ErrNegativeCount
	}
	if !l.Kind.IsProperty() && (p.Bedrooms != nil || p.Bathrooms != nil || p.SquareMeters != nil || p.Amenities != nil) {
		return ErrNotAProperty
	}
	if l.Kind != KindSaleItem && p.Condition != nil {
		return ErrNotSaleItem
	}
	for _, url := range p.AddImages {
		if strings.TrimSpace(url) == "" {
			return ErrEmptyPhotoURL
		}
	}

	if p.Title != nil {
		l.Title = strings.TrimSpace(*p.Title)
	}
	if p.Description != nil {
		l.Description = strings.TrimSpace(*p.Description)
	}
	if p.Price != nil {
		l.Price = *p.Price
	}
	if p.Location != nil {
		l.Location = trimLocation(*p.Location)
	}
	if p.Images != nil {
		l.Images = append([]string(nil), p.Images...)
	}
	if len(p.AddImages) > 0 {
		l.Images = append(l.Images, p.AddImages...)
	}
	if p.Available != nil {
		l.Available = *p.Available
	}
	if p.Bedrooms != nil {
		l.Bedrooms = *p.Bedrooms
	}
	if p.Bathrooms != nil {
		l.Bathrooms = *p.Bathrooms
	}
	if p.SquareMeters != nil {
		l.SquareMeters = *p.SquareMeters
	}
	if p.Amenities != nil {
		l.Amenities = append([]Amenity(nil), p.Amenities...)
	}
	if p.Condition != nil {
		l.Condition = Condition(strings.ToLower(strings.TrimSpace(string(*p.Condition))))
	}
	if p.ContactPhone != nil {
		l.ContactPhone = strings.TrimSpace(*p.ContactPhone)
	}
	if now.IsZero() {
		now = time.Now()
	}
	l.UpdatedAt = now.UTC()
	l.Record(ListingUpdatedEvent{ListingID: l.ID, At: l.UpdatedAt})
	return nil
}

// Clone returns a deep copy without pending events.
func (l *Listing) Clone() *Listing {
	if l == nil {
		return nil
	}
	out := *l
	out.Images = append([]string(nil), l.Images...)
	out.Amenities = append([]Amenity(nil), l.Amenities...)
	out.Landmarks = append([]Landmark(nil), l.Landmarks...)
	out.EventRecorder = events.EventRecorder{}
	return &out
}

func trimLocation(loc Location) Location {
	return Location{
		City:         strings.TrimSpace(loc.City),
		Neighborhood: strings.TrimSpace(loc.Neighborhood),
		StreetName:   strings.TrimSpace(loc.StreetName),
		HouseName:    strings.TrimSpace(loc.HouseName),
	}
}
