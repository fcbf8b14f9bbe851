// Package fixtures loads seed data for development and demo deployments.
// Files are validated against an embedded JSON schema before anything is
// imported.
package fixtures

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/santhosh-tekuri/jsonschema/v5"

	domainlistings "rentcam/internal/domain/listings"
	"rentcam/internal/domain/messaging"
	domainnotifications "rentcam/internal/domain/notifications"
	domainreviews "rentcam/internal/domain/reviews"
	domainuser "rentcam/internal/domain/user"
)

const schemaURL = "https://rentcam.local/schemas/fixtures.json"

var (
	//go:embed schema.json
	schemaJSON []byte
	//go:embed data/fixtures.json
	defaultData []byte
)

var ErrInvalidFixtures = errors.New("fixtures: validation failed")

type Set struct {
	Profiles      []Profile      `json:"profiles"`
	Listings      []Listing      `json:"listings"`
	Chats         []Thread       `json:"chats"`
	Conversations []Thread       `json:"conversations"`
	Notifications []Notification `json:"notifications"`
	Reviews       []Review       `json:"reviews"`
}

type Profile struct {
	CreatedAt time.Time `json:"created_at"`
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Phone     string    `json:"phone"`
	Type      string    `json:"type"`
	AvatarURL string    `json:"avatar_url"`
	Bio       string    `json:"bio"`
	Verified  bool      `json:"verified"`
}

type Location struct {
	City         string `json:"city"`
	Neighborhood string `json:"neighborhood"`
	StreetName   string `json:"street_name"`
	HouseName    string `json:"house_name"`
}

type Amenity struct {
	Name      string `json:"name"`
	Available bool   `json:"available"`
}

type Landmark struct {
	Name           string `json:"name"`
	Type           string `json:"type"`
	DistanceMeters int    `json:"distance_m"`
}

type Listing struct {
	Location     Location   `json:"location"`
	CreatedAt    time.Time  `json:"created_at"`
	ID           string     `json:"id"`
	Kind         string     `json:"kind"`
	Title        string     `json:"title"`
	Description  string     `json:"description"`
	Currency     string     `json:"currency"`
	OwnerID      string     `json:"owner_id"`
	Category     string     `json:"category"`
	Condition    string     `json:"condition"`
	ContactPhone string     `json:"contact_phone"`
	Images       []string   `json:"images"`
	Amenities    []Amenity  `json:"amenities"`
	Landmarks    []Landmark `json:"landmarks"`
	Price        int64      `json:"price"`
	SquareMeters float64    `json:"square_meters"`
	Bedrooms     int        `json:"bedrooms"`
	Bathrooms    int        `json:"bathrooms"`
	Available    bool       `json:"available"`
}

type Message struct {
	Timestamp time.Time `json:"timestamp"`
	ID        string    `json:"id"`
	SenderID  string    `json:"sender_id"`
	Content   string    `json:"content"`
	Read      bool      `json:"read"`
}

// Thread is shared by both chat formats; which list a record came from
// decides its kind.
type Thread struct {
	CreatedAt    time.Time `json:"created_at"`
	ID           string    `json:"id"`
	ListingID    string    `json:"listing_id"`
	Participants []string  `json:"participants"`
	Messages     []Message `json:"messages"`
}

type Notification struct {
	Timestamp        time.Time `json:"timestamp"`
	ID               string    `json:"id"`
	RecipientID      string    `json:"recipient_id"`
	Title            string    `json:"title"`
	Message          string    `json:"message"`
	Type             string    `json:"type"`
	RelatedListingID string    `json:"related_listing_id"`
	Read             bool      `json:"read"`
}

type Review struct {
	CreatedAt time.Time `json:"created_at"`
	ID        string    `json:"id"`
	ListingID string    `json:"listing_id"`
	AuthorID  string    `json:"author_id"`
	Comment   string    `json:"comment"`
	Rating    int       `json:"rating"`
}

// Targets are the stores seed data is written to. Nil targets are skipped.
type Targets struct {
	Listings      domainlistings.Repository
	Threads       messaging.Repository
	Notifications domainnotifications.Repository
	Profiles      domainuser.Repository
	Reviews       domainreviews.Repository
	Logger        *slog.Logger
}

type Summary struct {
	Profiles      int
	Listings      int
	Threads       int
	Messages      int
	Notifications int
	Reviews       int
}

// Load reads fixtures from path, or the embedded demo data when path is empty.
func Load(path string) (*Set, error) {
	if strings.TrimSpace(path) == "" {
		return Parse(defaultData)
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("fixtures: read %s: %w", path, err)
	}
	return Parse(raw)
}

// Parse validates raw against the fixture schema and decodes it.
func Parse(raw []byte) (*Set, error) {
	schema, err := compileSchema()
	if err != nil {
		return nil, err
	}
	var doc any
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("fixtures: body is not valid JSON: %w", err)
	}
	if err := schema.Validate(doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFixtures, err)
	}
	var set Set
	if err := json.Unmarshal(raw, &set); err != nil {
		return nil, fmt.Errorf("fixtures: decode: %w", err)
	}
	return &set, nil
}

func compileSchema() (*jsonschema.Schema, error) {
	compiler := jsonschema.NewCompiler()
	compiler.AssertFormat = true
	if err := compiler.AddResource(schemaURL, bytes.NewReader(schemaJSON)); err != nil {
		return nil, fmt.Errorf("fixtures: add schema: %w", err)
	}
	schema, err := compiler.Compile(schemaURL)
	if err != nil {
		return nil, fmt.Errorf("fixtures: compile schema: %w", err)
	}
	return schema, nil
}

// Import writes the set into the targets. Listings that already exist are
// left alone so restarts against a persistent store are harmless.
func Import(ctx context.Context, set *Set, t Targets) (Summary, error) {
	var sum Summary
	if set == nil {
		return sum, nil
	}
	logger := t.Logger
	if logger == nil {
		logger = slog.Default()
	}

	if t.Profiles != nil {
		for _, p := range set.Profiles {
			profile, err := domainuser.NewProfile(domainuser.CreateParams{
				ID:        domainuser.ID(p.ID),
				Email:     p.Email,
				Name:      p.Name,
				Phone:     p.Phone,
				Type:      domainuser.Type(p.Type),
				AvatarURL: p.AvatarURL,
				Bio:       p.Bio,
				Verified:  p.Verified,
				CreatedAt: p.CreatedAt,
			})
			if err != nil {
				return sum, fmt.Errorf("fixtures: profile %s: %w", p.ID, err)
			}
			if err := t.Profiles.Save(ctx, profile); err != nil {
				return sum, fmt.Errorf("fixtures: save profile %s: %w", p.ID, err)
			}
			sum.Profiles++
		}
	}

	if t.Listings != nil {
		listings := append([]Listing(nil), set.Listings...)
		sort.SliceStable(listings, func(i, j int) bool { return listings[i].CreatedAt.Before(listings[j].CreatedAt) })
		for _, l := range listings {
			listing, err := domainlistings.NewListing(listingParams(l))
			if err != nil {
				return sum, fmt.Errorf("fixtures: listing %s: %w", l.ID, err)
			}
			listing.ClearEvents()
			err = t.Listings.Insert(ctx, listing)
			if errors.Is(err, domainlistings.ErrDuplicateEntry) {
				logger.Debug("fixture listing already present", "listing_id", l.ID)
				continue
			}
			if err != nil {
				return sum, fmt.Errorf("fixtures: insert listing %s: %w", l.ID, err)
			}
			sum.Listings++
		}
	}

	if t.Threads != nil {
		store := messaging.Store{Repo: t.Threads}
		for kind, threads := range map[messaging.ThreadKind][]Thread{
			messaging.KindLegacyChat:   set.Chats,
			messaging.KindConversation: set.Conversations,
		} {
			for _, th := range threads {
				n, err := importThread(ctx, store, kind, th)
				if err != nil {
					return sum, err
				}
				sum.Threads++
				sum.Messages += n
			}
		}
	}

	if t.Notifications != nil {
		notes := append([]Notification(nil), set.Notifications...)
		sort.SliceStable(notes, func(i, j int) bool { return notes[i].Timestamp.Before(notes[j].Timestamp) })
		for _, n := range notes {
			err := t.Notifications.Add(ctx, &domainnotifications.Notification{
				ID:               domainnotifications.ID(n.ID),
				RecipientID:      n.RecipientID,
				Title:            n.Title,
				Message:          n.Message,
				Kind:             domainnotifications.Kind(n.Type),
				Timestamp:        n.Timestamp.UTC(),
				Read:             n.Read,
				RelatedListingID: n.RelatedListingID,
			})
			if err != nil {
				return sum, fmt.Errorf("fixtures: notification %s: %w", n.ID, err)
			}
			sum.Notifications++
		}
	}

	if t.Reviews != nil {
		reviews := append([]Review(nil), set.Reviews...)
		sort.SliceStable(reviews, func(i, j int) bool { return reviews[i].CreatedAt.Before(reviews[j].CreatedAt) })
		for _, r := range reviews {
			review, err := domainreviews.New(domainreviews.NewParams{
				ID:        domainreviews.ID(r.ID),
				ListingID: domainlistings.ListingID(r.ListingID),
				AuthorID:  r.AuthorID,
				Rating:    r.Rating,
				Comment:   r.Comment,
				CreatedAt: r.CreatedAt,
			})
			if err != nil {
				return sum, fmt.Errorf("fixtures: review %s: %w", r.ID, err)
			}
			err = t.Reviews.Add(ctx, review)
			if errors.Is(err, domainreviews.ErrDuplicateReview) {
				logger.Debug("fixture review already present", "review_id", r.ID)
				continue
			}
			if err != nil {
				return sum, fmt.Errorf("fixtures: review %s: %w", r.ID, err)
			}
			sum.Reviews++
		}
	}

	logger.Info("fixtures imported",
		"profiles", sum.Profiles,
		"listings", sum.Listings,
		"threads", sum.Threads,
		"messages", sum.Messages,
		"notifications", sum.Notifications,
		"reviews", sum.Reviews,
	)
	return sum, nil
}

func importThread(ctx context.Context, store messaging.Store, kind messaging.ThreadKind, th Thread) (int, error) {
	if len(th.Participants) != 2 {
		return 0, fmt.Errorf("fixtures: thread %s: expected two participants", th.ID)
	}
	created := th.CreatedAt
	if created.IsZero() && len(th.Messages) > 0 {
		created = th.Messages[0].Timestamp
	}
	thread, err := messaging.NewThread(messaging.ThreadID(th.ID), kind, th.ListingID, th.Participants[0], th.Participants[1], created)
	if err != nil {
		return 0, fmt.Errorf("fixtures: thread %s: %w", th.ID, err)
	}
	msgs := make([]*messaging.Message, 0, len(th.Messages))
	for _, m := range th.Messages {
		if !thread.HasParticipant(m.SenderID) {
			return 0, fmt.Errorf("fixtures: thread %s: %w", th.ID, messaging.ErrNotParticipant)
		}
		msgs = append(msgs, &messaging.Message{
			ID:        messaging.MessageID(m.ID),
			SenderID:  m.SenderID,
			Content:   m.Content,
			Timestamp: m.Timestamp.UTC(),
			Read:      m.Read,
		})
	}
	if err := store.Import(ctx, thread, msgs); err != nil {
		return 0, fmt.Errorf("fixtures: import thread %s: %w", th.ID, err)
	}
	return len(msgs), nil
}

func listingParams(l Listing) domainlistings.CreateListingParams {
	params := domainlistings.CreateListingParams{
		ID:          domainlistings.ListingID(l.ID),
		Kind:        domainlistings.Kind(l.Kind),
		Title:       l.Title,
		Description: l.Description,
		Price:       l.Price,
		Currency:    l.Currency,
		Location: domainlistings.Location{
			City:         l.Location.City,
			Neighborhood: l.Location.Neighborhood,
			StreetName:   l.Location.StreetName,
			HouseName:    l.Location.HouseName,
		},
		Images:       l.Images,
		OwnerID:      domainlistings.OwnerID(l.OwnerID),
		Available:    l.Available,
		Bedrooms:     l.Bedrooms,
		Bathrooms:    l.Bathrooms,
		SquareMeters: l.SquareMeters,
		Category:     domainlistings.Category(l.Category),
		Condition:    domainlistings.Condition(l.Condition),
		ContactPhone: l.ContactPhone,
		Now:          l.CreatedAt,
	}
	for _, a := range l.Amenities {
		params.Amenities = append(params.Amenities, domainlistings.Amenity{Name: a.Name, Available: a.Available})
	}
	for _, lm := range l.Landmarks {
		params.Landmarks = append(params.Landmarks, domainlistings.Landmark{
			Name:           lm.Name,
			Type:           domainlistings.LandmarkType(lm.Type),
			DistanceMeters: lm.DistanceMeters,
		})
	}
	return params
}
