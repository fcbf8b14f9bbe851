package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	domainuser "rentcam/internal/domain/user"
)

// ProfileRepository stores user profiles in memory. Not suitable for production.
type ProfileRepository struct {
	mu      sync.RWMutex
	byID    map[domainuser.ID]*domainuser.Profile
	byEmail map[string]domainuser.ID
}

func NewProfileRepository() *ProfileRepository {
	return &ProfileRepository{
		byID:    make(map[domainuser.ID]*domainuser.Profile),
		byEmail: make(map[string]domainuser.ID),
	}
}

func (r *ProfileRepository) ByID(ctx context.Context, id domainuser.ID) (*domainuser.Profile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if profile, ok := r.byID[id]; ok {
		return profile.Clone(), nil
	}
	return nil, domainuser.ErrNotFound
}

// All returns profiles ordered by id.
func (r *ProfileRepository) All(ctx context.Context) ([]*domainuser.Profile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*domainuser.Profile, 0, len(r.byID))
	for _, profile := range r.byID {
		out = append(out, profile.Clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *ProfileRepository) Save(ctx context.Context, profile *domainuser.Profile) error {
	if profile == nil {
		return domainuser.ErrIDRequired
	}
	if strings.TrimSpace(string(profile.ID)) == "" {
		return domainuser.ErrIDRequired
	}
	emailKey := strings.ToLower(strings.TrimSpace(profile.Email))
	if emailKey == "" {
		return domainuser.ErrEmailRequired
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if existingID, ok := r.byEmail[emailKey]; ok && existingID != profile.ID {
		return domainuser.ErrEmailAlreadyUsed
	}
	if previous, ok := r.byID[profile.ID]; ok {
		delete(r.byEmail, strings.ToLower(previous.Email))
	}
	r.byEmail[emailKey] = profile.ID
	r.byID[profile.ID] = profile.Clone()
	return nil
}

var _ domainuser.Repository = (*ProfileRepository)(nil)
