package policies

import (
	"context"
	"io"
	"time"

	domainlistings "rentcam/internal/domain/listings"
)

// SearchCache stores serialized search pages. Implementations must treat a
// miss and a backend failure the same way: found is false.
//
// Get also reports the cache version it looked at. A page computed after a
// miss is stored with that version, so a write that invalidated the cache in
// between leaves the page unreachable. A negative version means the page must
// not be stored.
type SearchCache interface {
	Get(ctx context.Context, spec domainlistings.FilterSpec, limit, offset int) (payload []byte, version int64, found bool)
	Set(ctx context.Context, version int64, spec domainlistings.FilterSpec, limit, offset int, payload []byte, ttl time.Duration)
	// Invalidate drops every cached page; called after any listing write.
	Invalidate(ctx context.Context)
}

// PhotoUploader stores a listing photo and returns its public URL.
type PhotoUploader interface {
	Upload(ctx context.Context, objectKey string, body io.Reader, size int64, contentType string) (string, error)
}
