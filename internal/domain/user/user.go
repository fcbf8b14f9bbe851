package user

import (
	"context"
	"errors"
	"strings"
	"time"
)

var (
	ErrIDRequired         = errors.New("user: id is required")
	ErrEmailRequired      = errors.New("user: email is required")
	ErrNameRequired       = errors.New("user: name is required")
	ErrInvalidType        = errors.New("user: invalid user type")
	ErrEmailAlreadyUsed   = errors.New("user: email already used")
	ErrNotFound           = errors.New("user: not found")
	ErrAlreadyLandlord    = errors.New("user: already a landlord")
	ErrApplicationPending = errors.New("user: landlord application already pending")
)

type ID string

type Type string

const (
	TypeStudent  Type = "student"
	TypeLandlord Type = "landlord"
)

// ApplicationStatus tracks a student's request to post properties.
type ApplicationStatus string

const (
	ApplicationNone     ApplicationStatus = ""
	ApplicationPending  ApplicationStatus = "pending"
	ApplicationApproved ApplicationStatus = "approved"
	ApplicationRejected ApplicationStatus = "rejected"
)

type Profile struct {
	ID                  ID
	Email               string
	Name                string
	Phone               string
	Type                Type
	AvatarURL           string
	Bio                 string
	Verified            bool
	LandlordApplication ApplicationStatus
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

type Repository interface {
	ByID(ctx context.Context, id ID) (*Profile, error)
	All(ctx context.Context) ([]*Profile, error)
	Save(ctx context.Context, profile *Profile) error
}

type CreateParams struct {
	ID        ID
	Email     string
	Name      string
	Phone     string
	Type      Type
	AvatarURL string
	Bio       string
	Verified  bool
	CreatedAt time.Time
}

func NewProfile(params CreateParams) (*Profile, error) {
	id := strings.TrimSpace(string(params.ID))
	if id == "" {
		return nil, ErrIDRequired
	}
	email := normalizeEmail(params.Email)
	if email == "" {
		return nil, ErrEmailRequired
	}
	name := strings.TrimSpace(params.Name)
	if name == "" {
		return nil, ErrNameRequired
	}
	kind := normalizeType(params.Type)
	if kind == "" {
		if strings.TrimSpace(string(params.Type)) != "" {
			return nil, ErrInvalidType
		}
		kind = TypeStudent
	}
	now := params.CreatedAt
	if now.IsZero() {
		now = time.Now()
	}
	now = now.UTC()
	return &Profile{
		ID:        ID(id),
		Email:     email,
		Name:      name,
		Phone:     strings.TrimSpace(params.Phone),
		Type:      kind,
		AvatarURL: strings.TrimSpace(params.AvatarURL),
		Bio:       strings.TrimSpace(params.Bio),
		Verified:  params.Verified,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// Details are the user-editable profile fields; nil leaves a field unchanged.
type Details struct {
	Name      *string
	Phone     *string
	Bio       *string
	AvatarURL *string
}

func (p *Profile) UpdateDetails(d Details, now time.Time) error {
	if d.Name != nil && strings.TrimSpace(*d.Name) == "" {
		return ErrNameRequired
	}
	if d.Name != nil {
		p.Name = strings.TrimSpace(*d.Name)
	}
	if d.Phone != nil {
		p.Phone = strings.TrimSpace(*d.Phone)
	}
	if d.Bio != nil {
		p.Bio = strings.TrimSpace(*d.Bio)
	}
	if d.AvatarURL != nil {
		p.AvatarURL = strings.TrimSpace(*d.AvatarURL)
	}
	p.touch(now)
	return nil
}

// ApplyForLandlord files a pending application. A rejected applicant may
// apply again.
func (p *Profile) ApplyForLandlord(now time.Time) error {
	if p.Type == TypeLandlord {
		return ErrAlreadyLandlord
	}
	if p.LandlordApplication == ApplicationPending {
		return ErrApplicationPending
	}
	p.LandlordApplication = ApplicationPending
	p.touch(now)
	return nil
}

func (p *Profile) IsLandlord() bool {
	return p.Type == TypeLandlord
}

func (p *Profile) Clone() *Profile {
	if p == nil {
		return nil
	}
	out := *p
	return &out
}

func (p *Profile) touch(now time.Time) {
	if now.IsZero() {
		now = time.Now()
	}
	p.UpdatedAt = now.UTC()
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func normalizeType(t Type) Type {
	switch strings.ToLower(strings.TrimSpace(string(t))) {
	case "student":
		return TypeStudent
	case "landlord":
		return TypeLandlord
	default:
		return ""
	}
}
