package ginserver

import (
	"log/slog"
	"net/http"
	"strings"

	gin "github.com/gin-gonic/gin"

	"rentcam/internal/app/commands"
	"rentcam/internal/app/dto"
	listingapp "rentcam/internal/app/handlers/listings"
	"rentcam/internal/app/queries"
	domainlistings "rentcam/internal/domain/listings"
)

const maxPhotoBytes = 10 << 20

// ListingHandler wires listing commands and queries to HTTP.
type ListingHandler struct {
	Commands commands.Bus
	Queries  queries.Bus
	Logger   *slog.Logger
}

type locationRequest struct {
	City         string `json:"city" binding:"required"`
	Neighborhood string `json:"neighborhood"`
	StreetName   string `json:"street_name"`
	HouseName    string `json:"house_name"`
}

type amenityRequest struct {
	Name      string `json:"name" binding:"required"`
	Available bool   `json:"available"`
}

type landmarkRequest struct {
	Name           string `json:"name" binding:"required"`
	Type           string `json:"type" binding:"omitempty,oneof=school hospital market transport"`
	DistanceMeters int    `json:"distance_m" binding:"gte=0"`
}

type createListingRequest struct {
	Kind         string            `json:"kind" binding:"required,oneof=rental-property sale-property sale-item"`
	Title        string            `json:"title" binding:"required"`
	Description  string            `json:"description"`
	Price        *int64            `json:"price" binding:"required,gte=0"`
	Currency     string            `json:"currency"`
	Location     locationRequest   `json:"location"`
	Images       []string          `json:"images"`
	Available    *bool             `json:"available"`
	Bedrooms     int               `json:"bedrooms" binding:"gte=0"`
	Bathrooms    int               `json:"bathrooms" binding:"gte=0"`
	SquareMeters float64           `json:"square_meters" binding:"gte=0"`
	Amenities    []amenityRequest  `json:"amenities" binding:"omitempty,dive"`
	Landmarks    []landmarkRequest `json:"landmarks" binding:"omitempty,dive"`
	Category     string            `json:"category" binding:"omitempty,oneof=land house furniture electronics vehicles business"`
	Condition    string            `json:"condition" binding:"omitempty,oneof=new excellent good fair poor"`
	ContactPhone string            `json:"contact_phone"`
}

func (r createListingRequest) payload() listingapp.ListingPayload {
	available := true
	if r.Available != nil {
		available = *r.Available
	}
	p := listingapp.ListingPayload{
		Kind:         domainlistings.Kind(r.Kind),
		Title:        r.Title,
		Description:  r.Description,
		Currency:     r.Currency,
		Location:     domainlistings.Location(r.Location),
		Images:       r.Images,
		Available:    available,
		Bedrooms:     r.Bedrooms,
		Bathrooms:    r.Bathrooms,
		SquareMeters: r.SquareMeters,
		Amenities:    toAmenities(r.Amenities),
		Category:     domainlistings.Category(r.Category),
		Condition:    domainlistings.Condition(r.Condition),
		ContactPhone: r.ContactPhone,
	}
	if r.Price != nil {
		p.Price = *r.Price
	}
	for _, lm := range r.Landmarks {
		p.Landmarks = append(p.Landmarks, domainlistings.Landmark{
			Name:           lm.Name,
			Type:           domainlistings.LandmarkType(lm.Type),
			DistanceMeters: lm.DistanceMeters,
		})
	}
	return p
}

type updateListingRequest struct {
	Title        *string          `json:"title"`
	Description  *string          `json:"description"`
	Price        *int64           `json:"price" binding:"omitempty,gte=0"`
	Location     *locationRequest `json:"location"`
	Images       []string         `json:"images"`
	Available    *bool            `json:"available"`
	Bedrooms     *int             `json:"bedrooms" binding:"omitempty,gte=0"`
	Bathrooms    *int             `json:"bathrooms" binding:"omitempty,gte=0"`
	SquareMeters *float64         `json:"square_meters" binding:"omitempty,gte=0"`
	Amenities    []amenityRequest `json:"amenities" binding:"omitempty,dive"`
	Condition    *string          `json:"condition" binding:"omitempty,oneof=new excellent good fair poor"`
	ContactPhone *string          `json:"contact_phone"`
}

func (r updateListingRequest) patch() domainlistings.Patch {
	p := domainlistings.Patch{
		Title:        r.Title,
		Description:  r.Description,
		Price:        r.Price,
		Images:       r.Images,
		Available:    r.Available,
		Bedrooms:     r.Bedrooms,
		Bathrooms:    r.Bathrooms,
		SquareMeters: r.SquareMeters,
		ContactPhone: r.ContactPhone,
	}
	if r.Location != nil {
		loc := domainlistings.Location(*r.Location)
		p.Location = &loc
	}
	if r.Amenities != nil {
		p.Amenities = toAmenities(r.Amenities)
	}
	if r.Condition != nil {
		cond := domainlistings.Condition(*r.Condition)
		p.Condition = &cond
	}
	return p
}

type availabilityRequest struct {
	Available *bool `json:"available" binding:"required"`
}

// Search responds with a filtered, paged slice of the catalog.
func (h ListingHandler) Search(c *gin.Context) {
	if h.Queries == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "listing handler unavailable"})
		return
	}
	query := listingapp.SearchListingsQuery{
		Spec:   filterFromQuery(c),
		Limit:  parseInt(c.Query("limit")),
		Offset: parseInt(c.Query("offset")),
	}
	page, err := queries.Ask[listingapp.SearchListingsQuery, dto.ListingPage](c.Request.Context(), h.Queries, query)
	if err != nil {
		respondError(c, h.Logger, err, "search listings")
		return
	}
	c.JSON(http.StatusOK, page)
}

func (h ListingHandler) Get(c *gin.Context) {
	if h.Queries == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "listing handler unavailable"})
		return
	}
	listing, err := queries.Ask[listingapp.GetListingQuery, *dto.Listing](c.Request.Context(), h.Queries, listingapp.GetListingQuery{ID: c.Param("id")})
	if err != nil {
		respondError(c, h.Logger, err, "get listing", "listing_id", c.Param("id"))
		return
	}
	c.JSON(http.StatusOK, listing)
}

func (h ListingHandler) Create(c *gin.Context) {
	if h.Commands == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "listing handler unavailable"})
		return
	}
	p, ok := requireUser(c)
	if !ok {
		return
	}
	var req createListingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if domainlistings.Kind(req.Kind).IsProperty() && !requireLandlord(c, p) {
		return
	}
	cmd := listingapp.CreateListingCommand{OwnerID: p.ID, Payload: req.payload()}
	listing, err := commands.Dispatch[listingapp.CreateListingCommand, *dto.Listing](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		respondError(c, h.Logger, err, "create listing", "owner_id", p.ID)
		return
	}
	c.JSON(http.StatusCreated, listing)
}

func (h ListingHandler) Update(c *gin.Context) {
	if h.Commands == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "listing handler unavailable"})
		return
	}
	p, ok := requireUser(c)
	if !ok {
		return
	}
	var req updateListingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	cmd := listingapp.UpdateListingCommand{OwnerID: p.ID, ListingID: c.Param("id"), Patch: req.patch()}
	listing, err := commands.Dispatch[listingapp.UpdateListingCommand, *dto.Listing](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		respondError(c, h.Logger, err, "update listing", "listing_id", cmd.ListingID)
		return
	}
	c.JSON(http.StatusOK, listing)
}

func (h ListingHandler) SetAvailability(c *gin.Context) {
	if h.Commands == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "listing handler unavailable"})
		return
	}
	p, ok := requireUser(c)
	if !ok {
		return
	}
	var req availabilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	cmd := listingapp.SetAvailabilityCommand{OwnerID: p.ID, ListingID: c.Param("id"), Available: *req.Available}
	listing, err := commands.Dispatch[listingapp.SetAvailabilityCommand, *dto.Listing](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		respondError(c, h.Logger, err, "set availability", "listing_id", cmd.ListingID)
		return
	}
	c.JSON(http.StatusOK, listing)
}

func (h ListingHandler) Delete(c *gin.Context) {
	if h.Commands == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "listing handler unavailable"})
		return
	}
	p, ok := requireUser(c)
	if !ok {
		return
	}
	cmd := listingapp.DeleteListingCommand{OwnerID: p.ID, ListingID: c.Param("id")}
	if _, err := commands.Dispatch[listingapp.DeleteListingCommand, struct{}](c.Request.Context(), h.Commands, cmd); err != nil {
		respondError(c, h.Logger, err, "delete listing", "listing_id", cmd.ListingID)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h ListingHandler) UploadPhoto(c *gin.Context) {
	if h.Commands == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "listing handler unavailable"})
		return
	}
	p, ok := requireUser(c)
	if !ok {
		return
	}
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file is required"})
		return
	}
	if fileHeader.Size > maxPhotoBytes {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "photo exceeds 10MB"})
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "cannot read file"})
		return
	}
	defer file.Close()

	contentType := fileHeader.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	if !strings.HasPrefix(contentType, "image/") {
		c.JSON(http.StatusBadRequest, gin.H{"error": "only image uploads are accepted"})
		return
	}
	cmd := listingapp.AttachPhotoCommand{
		OwnerID:     p.ID,
		ListingID:   c.Param("id"),
		FileName:    fileHeader.Filename,
		ContentType: contentType,
		Size:        fileHeader.Size,
		Reader:      file,
	}
	result, err := commands.Dispatch[listingapp.AttachPhotoCommand, *dto.PhotoUploadResult](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		respondError(c, h.Logger, err, "upload photo", "listing_id", cmd.ListingID)
		return
	}
	c.JSON(http.StatusCreated, result)
}

var _ ListingHTTP = ListingHandler{}

func filterFromQuery(c *gin.Context) domainlistings.FilterSpec {
	return domainlistings.FilterSpec{
		Type:          domainlistings.TypeFilter(c.Query("type")),
		MinPrice:      optionalInt64(c.Query("min_price")),
		MaxPrice:      optionalInt64(c.Query("max_price")),
		City:          c.Query("city"),
		Neighborhood:  c.Query("neighborhood"),
		Bedrooms:      optionalInt(c.Query("bedrooms")),
		Amenities:     splitCSV(c.Query("amenities")),
		Query:         c.Query("q"),
		Category:      domainlistings.Category(c.Query("category")),
		OwnerID:       domainlistings.OwnerID(c.Query("owner_id")),
		AvailableOnly: parseBool(c.Query("available_only")),
	}
}

func toAmenities(in []amenityRequest) []domainlistings.Amenity {
	out := make([]domainlistings.Amenity, 0, len(in))
	for _, a := range in {
		out = append(out, domainlistings.Amenity{Name: a.Name, Available: a.Available})
	}
	return out
}
