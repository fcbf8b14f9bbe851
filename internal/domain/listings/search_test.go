package listings

import (
	"testing"
	"time"
)

var baseTime = time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)

func property(id string, price int64, city string, age time.Duration) *Listing {
	return &Listing{
		ID:        ListingID(id),
		Kind:      KindRentalProperty,
		Title:     "Studio " + id,
		Price:     price,
		Location:  Location{City: city, Neighborhood: "Ngoa-Ekelle"},
		OwnerID:   "landlord-1",
		Available: true,
		CreatedAt: baseTime.Add(-age),
	}
}

func int64p(v int64) *int64 { return &v }
func intp(v int) *int       { return &v }

func TestSearchScenarioMinPriceAndCity(t *testing.T) {
	items := []*Listing{
		property("a", 50000, "Douala", time.Hour),
		property("b", 150000, "Douala", 2*time.Hour),
		property("c", 80000, "Yaoundé", 3*time.Hour),
	}
	got := Search(items, FilterSpec{MinPrice: int64p(60000), City: "Douala"})
	if len(got) != 1 || got[0].ID != "b" {
		t.Fatalf("expected only listing b, got %+v", ids(got))
	}
}

func TestSearchEmptySpecReturnsAllNewestFirst(t *testing.T) {
	items := []*Listing{
		property("old", 1, "Douala", 5*time.Hour),
		property("new", 1, "Douala", time.Minute),
		property("mid", 1, "Douala", time.Hour),
	}
	got := Search(items, FilterSpec{})
	want := []ListingID{"new", "mid", "old"}
	if len(got) != len(items) {
		t.Fatalf("expected %d results, got %d", len(items), len(got))
	}
	for i, id := range want {
		if got[i].ID != id {
			t.Fatalf("position %d: want %s got %s", i, id, got[i].ID)
		}
	}
	if items[0].ID != "old" {
		t.Fatalf("input slice was reordered")
	}
}

func TestSearchTiesKeepInputOrder(t *testing.T) {
	a := property("a", 1, "Buea", 0)
	b := property("b", 1, "Buea", 0)
	c := property("c", 1, "Buea", 0)
	got := Search([]*Listing{b, c, a}, FilterSpec{Type: TypeAll})
	if ids(got) != "b,c,a" {
		t.Fatalf("stable order violated: %s", ids(got))
	}
}

func TestSearchAgreesWithMatches(t *testing.T) {
	items := []*Listing{
		property("a", 50000, "Douala", time.Hour),
		property("b", 150000, "Yaoundé", 2*time.Hour),
		{ID: "item", Kind: KindSaleItem, Price: 300000, Category: CategoryElectronics, Location: Location{City: "Yaoundé"}},
		nil,
	}
	specs := []FilterSpec{
		{},
		{Type: TypeRent},
		{Type: TypeSale},
		{City: "yaou"},
		{Bedrooms: intp(0)},
		{MaxPrice: int64p(100000)},
		{Category: "electronics"},
		{Category: " Electronics "},
		{Type: "Rent"},
		{Type: " rent"},
		{Type: "SALE "},
		{OwnerID: " landlord-1"},
		{OwnerID: "landlord-1 ", City: " douala "},
	}
	for _, spec := range specs {
		result := Search(items, spec)
		in := map[*Listing]bool{}
		for _, l := range result {
			in[l] = true
		}
		for _, l := range items {
			if Matches(l, spec) != in[l] {
				t.Fatalf("spec %+v: Matches/Search disagree for %v", spec, l)
			}
		}
	}
}

func TestMatchesRawSpecValues(t *testing.T) {
	rental := property("a", 50000, "Douala", time.Hour)
	for _, spec := range []FilterSpec{
		{Type: "Rent"},
		{Type: " rent"},
		{OwnerID: " landlord-1"},
	} {
		if !Matches(rental, spec) {
			t.Fatalf("spec %+v should match the rental", spec)
		}
		if got := Search([]*Listing{rental}, spec); len(got) != 1 {
			t.Fatalf("spec %+v: expected the rental in search results", spec)
		}
	}
}

func TestMatchesTypeClause(t *testing.T) {
	rental := &Listing{Kind: KindRentalProperty}
	saleProperty := &Listing{Kind: KindSaleProperty}
	saleItem := &Listing{Kind: KindSaleItem}
	tests := []struct {
		filter TypeFilter
		want   [3]bool
	}{
		{"", [3]bool{true, true, true}},
		{TypeAll, [3]bool{true, true, true}},
		{TypeRent, [3]bool{true, false, false}},
		{TypeSale, [3]bool{false, true, true}},
		{TypeFilter(KindSaleItem), [3]bool{false, false, true}},
		{"lease", [3]bool{false, false, false}},
	}
	for _, tt := range tests {
		got := [3]bool{
			Matches(rental, FilterSpec{Type: tt.filter}),
			Matches(saleProperty, FilterSpec{Type: tt.filter}),
			Matches(saleItem, FilterSpec{Type: tt.filter}),
		}
		if got != tt.want {
			t.Fatalf("type %q: got %v want %v", tt.filter, got, tt.want)
		}
	}
}

func TestMatchesPriceBoundsInclusive(t *testing.T) {
	l := &Listing{Kind: KindRentalProperty, Price: 85000}
	if !Matches(l, FilterSpec{MinPrice: int64p(85000), MaxPrice: int64p(85000)}) {
		t.Fatalf("bounds should be inclusive")
	}
	if Matches(l, FilterSpec{MinPrice: int64p(85001)}) {
		t.Fatalf("price below min should fail")
	}
	if Matches(l, FilterSpec{MaxPrice: int64p(84999)}) {
		t.Fatalf("price above max should fail")
	}
}

func TestMatchesLocationSubstringCaseInsensitive(t *testing.T) {
	l := &Listing{Kind: KindRentalProperty, Location: Location{City: "Yaoundé", Neighborhood: "Ngoa-Ekelle"}}
	if !Matches(l, FilterSpec{City: "YAOU", Neighborhood: "ekel"}) {
		t.Fatalf("expected partial case-insensitive match")
	}
	if Matches(l, FilterSpec{City: "Douala"}) {
		t.Fatalf("unexpected city match")
	}
	if Matches(l, FilterSpec{Neighborhood: "Bastos"}) {
		t.Fatalf("unexpected neighborhood match")
	}
}

func TestMatchesBedroomsMinimumThreshold(t *testing.T) {
	for want := 0; want <= 4; want++ {
		for k := -2; k <= 2; k++ {
			bedrooms := want + k
			if bedrooms < 0 {
				continue
			}
			l := &Listing{Kind: KindRentalProperty, Bedrooms: bedrooms}
			got := Matches(l, FilterSpec{Bedrooms: intp(want)})
			if got != (k >= 0) {
				t.Fatalf("bedrooms=%d spec=%d: got %v", bedrooms, want, got)
			}
		}
	}
	if Matches(&Listing{Kind: KindSaleItem}, FilterSpec{Bedrooms: intp(0)}) {
		t.Fatalf("sale items cannot satisfy a bedroom clause")
	}
}

func TestMatchesAmenities(t *testing.T) {
	l := &Listing{
		Kind: KindRentalProperty,
		Amenities: []Amenity{
			{Name: "WiFi", Available: true},
			{Name: "Water", Available: true},
			{Name: "Generator", Available: false},
			{Name: "Security", Available: true},
		},
	}
	tests := []struct {
		required []string
		want     bool
	}{
		{[]string{"wifi"}, true},
		{[]string{"WiFi", "water"}, true},
		{[]string{"wifi", "generator"}, false},
		{[]string{"parking"}, false},
		{[]string{"secu"}, true},
		{[]string{}, true},
	}
	for _, tt := range tests {
		if got := Matches(l, FilterSpec{Amenities: tt.required}); got != tt.want {
			t.Fatalf("amenities %v: got %v want %v", tt.required, got, tt.want)
		}
	}
}

func TestMatchesSupplementaryClauses(t *testing.T) {
	item := &Listing{
		Kind:        KindSaleItem,
		Title:       "MacBook Pro 13",
		Description: "Excellent condition laptop",
		Category:    CategoryElectronics,
		OwnerID:     "seller-1",
		Location:    Location{City: "Yaoundé"},
		Available:   false,
	}
	if !Matches(item, FilterSpec{Query: "macbook"}) {
		t.Fatalf("keyword should match title")
	}
	if !Matches(item, FilterSpec{Query: "LAPTOP"}) {
		t.Fatalf("keyword should match description")
	}
	if !Matches(item, FilterSpec{Category: "Electronics"}) {
		t.Fatalf("category should match case-insensitively")
	}
	if Matches(item, FilterSpec{Category: CategoryFurniture}) {
		t.Fatalf("wrong category matched")
	}
	if Matches(item, FilterSpec{OwnerID: "seller-2"}) {
		t.Fatalf("owner clause should be exact")
	}
	if Matches(item, FilterSpec{AvailableOnly: true}) {
		t.Fatalf("unavailable listing should be excluded")
	}
}

func TestMatchesNilListing(t *testing.T) {
	if Matches(nil, FilterSpec{}) {
		t.Fatalf("nil listing must not match")
	}
}

func TestNormalizedDedupesAmenities(t *testing.T) {
	spec := FilterSpec{Type: " Rent ", Amenities: []string{" WiFi", "wifi", "", "Water"}}.Normalized()
	if spec.Type != TypeRent {
		t.Fatalf("type not normalized: %q", spec.Type)
	}
	if len(spec.Amenities) != 2 {
		t.Fatalf("expected 2 amenities, got %v", spec.Amenities)
	}
	if !(FilterSpec{Type: "all"}).Empty() {
		t.Fatalf("type all should count as empty")
	}
}

func TestPaginate(t *testing.T) {
	items := make([]*Listing, 0, 70)
	for i := 0; i < 70; i++ {
		items = append(items, &Listing{})
	}
	page := Paginate(items, 0, 0)
	if page.Limit != DefaultPageLimit || len(page.Items) != DefaultPageLimit || page.Total != 70 {
		t.Fatalf("default paging wrong: %+v", page)
	}
	page = Paginate(items, 100, 65)
	if page.Limit != MaxPageLimit || len(page.Items) != 5 {
		t.Fatalf("clamped paging wrong: limit=%d len=%d", page.Limit, len(page.Items))
	}
	page = Paginate(items, 10, 500)
	if len(page.Items) != 0 {
		t.Fatalf("offset past end should be empty")
	}
}

func ids(items []*Listing) string {
	out := ""
	for i, l := range items {
		if i > 0 {
			out += ","
		}
		out += string(l.ID)
	}
	return out
}
