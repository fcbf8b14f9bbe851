package dto

import (
	"time"

	domainlistings "rentcam/internal/domain/listings"
	"rentcam/internal/domain/shared/money"
)

type ListingLocation struct {
	City         string `json:"city"`
	Neighborhood string `json:"neighborhood"`
	StreetName   string `json:"street_name,omitempty"`
	HouseName    string `json:"house_name,omitempty"`
}

type ListingAmenity struct {
	Name      string `json:"name"`
	Available bool   `json:"available"`
}

type ListingLandmark struct {
	Name           string `json:"name"`
	Type           string `json:"type"`
	DistanceMeters int    `json:"distance_m"`
}

// Listing is the public shape of any marketplace entry. Property and sale
// item fields are omitted when they do not apply.
type Listing struct {
	ID           string            `json:"id"`
	Kind         string            `json:"kind"`
	Title        string            `json:"title"`
	Description  string            `json:"description"`
	Price        int64             `json:"price"`
	Currency     string            `json:"currency"`
	PriceLabel   string            `json:"price_label"`
	Location     ListingLocation   `json:"location"`
	Images       []string          `json:"images"`
	OwnerID      string            `json:"owner_id"`
	Available    bool              `json:"available"`
	Bedrooms     int               `json:"bedrooms,omitempty"`
	Bathrooms    int               `json:"bathrooms,omitempty"`
	SquareMeters float64           `json:"square_meters,omitempty"`
	Amenities    []ListingAmenity  `json:"amenities,omitempty"`
	Landmarks    []ListingLandmark `json:"landmarks,omitempty"`
	Category     string            `json:"category,omitempty"`
	Condition    string            `json:"condition,omitempty"`
	ContactPhone string            `json:"contact_phone,omitempty"`
	CreatedAt    time.Time         `json:"created_at"`
	UpdatedAt    time.Time         `json:"updated_at"`
}

type ListingPage struct {
	Items  []Listing `json:"items"`
	Total  int       `json:"total"`
	Limit  int       `json:"limit"`
	Offset int       `json:"offset"`
}

type PhotoUploadResult struct {
	ListingID string   `json:"listing_id"`
	URL       string   `json:"url"`
	Images    []string `json:"images"`
}

func MapListing(l *domainlistings.Listing) Listing {
	if l == nil {
		return Listing{}
	}
	out := Listing{
		ID:          string(l.ID),
		Kind:        string(l.Kind),
		Title:       l.Title,
		Description: l.Description,
		Price:       l.Price,
		Currency:    l.Currency,
		PriceLabel:  money.Money{Amount: l.Price, Currency: l.Currency}.Format(),
		Location: ListingLocation{
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
		CreatedAt:    l.CreatedAt,
		UpdatedAt:    l.UpdatedAt,
	}
	for _, a := range l.Amenities {
		out.Amenities = append(out.Amenities, ListingAmenity{Name: a.Name, Available: a.Available})
	}
	for _, lm := range l.Landmarks {
		out.Landmarks = append(out.Landmarks, ListingLandmark{Name: lm.Name, Type: string(lm.Type), DistanceMeters: lm.DistanceMeters})
	}
	return out
}

func MapListingPage(page domainlistings.Page) ListingPage {
	items := make([]Listing, 0, len(page.Items))
	for _, l := range page.Items {
		items = append(items, MapListing(l))
	}
	return ListingPage{Items: items, Total: page.Total, Limit: page.Limit, Offset: page.Offset}
}
