package dto

import (
	"time"

	domainuser "rentcam/internal/domain/user"
)

type Profile struct {
	ID                  string    `json:"id"`
	Email               string    `json:"email"`
	Name                string    `json:"name"`
	Phone               string    `json:"phone,omitempty"`
	Type                string    `json:"type"`
	AvatarURL           string    `json:"avatar_url,omitempty"`
	Bio                 string    `json:"bio,omitempty"`
	Verified            bool      `json:"verified"`
	LandlordApplication string    `json:"landlord_application,omitempty"`
	CreatedAt           time.Time `json:"created_at"`
	UpdatedAt           time.Time `json:"updated_at"`
}

func MapProfile(p *domainuser.Profile) Profile {
	if p == nil {
		return Profile{}
	}
	return Profile{
		ID:                  string(p.ID),
		Email:               p.Email,
		Name:                p.Name,
		Phone:               p.Phone,
		Type:                string(p.Type),
		AvatarURL:           p.AvatarURL,
		Bio:                 p.Bio,
		Verified:            p.Verified,
		LandlordApplication: string(p.LandlordApplication),
		CreatedAt:           p.CreatedAt,
		UpdatedAt:           p.UpdatedAt,
	}
}
