package listings

import (
	"sort"
	"strings"
)

const (
	DefaultPageLimit = 24
	MaxPageLimit     = 60
)

// TypeFilter selects listing kinds. Besides the broad "rent" and "sale" groups
// an exact Kind value is accepted.
type TypeFilter string

const (
	TypeAll  TypeFilter = "all"
	TypeRent TypeFilter = "rent"
	TypeSale TypeFilter = "sale"
)

func (t TypeFilter) admits(kind Kind) bool {
	switch t {
	case "", TypeAll:
		return true
	case TypeRent:
		return kind == KindRentalProperty
	case TypeSale:
		return kind == KindSaleProperty || kind == KindSaleItem
	default:
		return Kind(t) == kind
	}
}

// FilterSpec holds the active search constraints. Zero values and nil
// pointers mean "no constraint".
type FilterSpec struct {
	Type          TypeFilter
	MinPrice      *int64
	MaxPrice      *int64
	City          string
	Neighborhood  string
	Bedrooms      *int
	Amenities     []string
	Query         string
	Category      Category
	OwnerID       OwnerID
	AvailableOnly bool
}

// Empty reports whether no clause is set.
func (s FilterSpec) Empty() bool {
	n := s.Normalized()
	return (n.Type == "" || n.Type == TypeAll) && n.MinPrice == nil && n.MaxPrice == nil &&
		n.City == "" && n.Neighborhood == "" && n.Bedrooms == nil && len(n.Amenities) == 0 &&
		n.Query == "" && n.Category == "" && n.OwnerID == "" && !n.AvailableOnly
}

// Normalized returns a trimmed copy. Matching against the normalized spec gives
// the same result as matching against the original.
func (s FilterSpec) Normalized() FilterSpec {
	out := s
	out.Type = TypeFilter(strings.ToLower(strings.TrimSpace(string(s.Type))))
	out.City = strings.TrimSpace(s.City)
	out.Neighborhood = strings.TrimSpace(s.Neighborhood)
	out.Query = strings.TrimSpace(s.Query)
	out.Category = Category(strings.ToLower(strings.TrimSpace(string(s.Category))))
	out.OwnerID = OwnerID(strings.TrimSpace(string(s.OwnerID)))
	out.Amenities = normalizeTokens(s.Amenities)
	if s.MinPrice != nil {
		v := *s.MinPrice
		out.MinPrice = &v
	}
	if s.MaxPrice != nil {
		v := *s.MaxPrice
		out.MaxPrice = &v
	}
	if s.Bedrooms != nil {
		v := *s.Bedrooms
		out.Bedrooms = &v
	}
	return out
}

// Matches reports whether listing satisfies every clause set in spec. It fails
// closed: a nil listing, or one lacking the data a clause needs, never matches.
// The spec is normalized first, so raw and normalized specs agree.
func Matches(listing *Listing, spec FilterSpec) bool {
	return matches(listing, spec.Normalized())
}

func matches(listing *Listing, spec FilterSpec) bool {
	if listing == nil {
		return false
	}
	if !spec.Type.admits(listing.Kind) {
		return false
	}
	if spec.MinPrice != nil && listing.Price < *spec.MinPrice {
		return false
	}
	if spec.MaxPrice != nil && listing.Price > *spec.MaxPrice {
		return false
	}
	if spec.City != "" && !containsFold(listing.Location.City, spec.City) {
		return false
	}
	if spec.Neighborhood != "" && !containsFold(listing.Location.Neighborhood, spec.Neighborhood) {
		return false
	}
	if spec.Bedrooms != nil {
		if !listing.Kind.IsProperty() || listing.Bedrooms < *spec.Bedrooms {
			return false
		}
	}
	if len(spec.Amenities) > 0 && !hasAvailableAmenities(listing.Amenities, spec.Amenities) {
		return false
	}
	if spec.Query != "" && !matchesKeyword(listing, spec.Query) {
		return false
	}
	if spec.Category != "" {
		if listing.Kind != KindSaleItem || !strings.EqualFold(string(listing.Category), string(spec.Category)) {
			return false
		}
	}
	if spec.OwnerID != "" && listing.OwnerID != spec.OwnerID {
		return false
	}
	if spec.AvailableOnly && !listing.Available {
		return false
	}
	return true
}

// Search filters items through Matches and orders survivors newest first. Ties
// keep their input order. The input slice is not modified.
func Search(items []*Listing, spec FilterSpec) []*Listing {
	spec = spec.Normalized()
	out := make([]*Listing, 0, len(items))
	for _, listing := range items {
		if matches(listing, spec) {
			out = append(out, listing)
		}
	}
	SortNewestFirst(out)
	return out
}

// SortNewestFirst orders listings by CreatedAt descending, stable on ties.
func SortNewestFirst(items []*Listing) {
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].CreatedAt.After(items[j].CreatedAt)
	})
}

// Page is a window over an ordered result.
type Page struct {
	Items  []*Listing
	Total  int
	Limit  int
	Offset int
}

// Paginate slices an ordered result using catalog paging defaults.
func Paginate(items []*Listing, limit, offset int) Page {
	if limit <= 0 {
		limit = DefaultPageLimit
	}
	if limit > MaxPageLimit {
		limit = MaxPageLimit
	}
	if offset < 0 {
		offset = 0
	}
	total := len(items)
	start := offset
	if start > total {
		start = total
	}
	end := start + limit
	if end > total {
		end = total
	}
	return Page{Items: items[start:end], Total: total, Limit: limit, Offset: offset}
}

func hasAvailableAmenities(have []Amenity, required []string) bool {
	for _, name := range required {
		if strings.TrimSpace(name) == "" {
			continue
		}
		found := false
		for _, amenity := range have {
			if amenity.Available && containsFold(amenity.Name, name) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

func matchesKeyword(listing *Listing, query string) bool {
	return containsFold(listing.Title, query) ||
		containsFold(listing.Description, query) ||
		containsFold(listing.Location.City, query) ||
		containsFold(listing.Location.Neighborhood, query)
}

func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(strings.TrimSpace(needle)))
}

func normalizeTokens(tokens []string) []string {
	if len(tokens) == 0 {
		return nil
	}
	out := make([]string, 0, len(tokens))
	seen := make(map[string]struct{}, len(tokens))
	for _, token := range tokens {
		token = strings.TrimSpace(token)
		key := strings.ToLower(token)
		if token == "" {
			continue
		}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, token)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
