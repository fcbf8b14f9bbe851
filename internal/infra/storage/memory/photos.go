package memory

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"
)

type photo struct {
	data        []byte
	contentType string
	storedAt    time.Time
}

// PhotoStore keeps uploaded listing photos in memory and serves them back.
// URLs are BaseURL + "/" + object key.
type PhotoStore struct {
	BaseURL string

	mu     sync.RWMutex
	photos map[string]photo
}

func NewPhotoStore(baseURL string) *PhotoStore {
	return &PhotoStore{BaseURL: strings.TrimRight(baseURL, "/"), photos: make(map[string]photo)}
}

func (s *PhotoStore) Upload(ctx context.Context, objectKey string, body io.Reader, size int64, contentType string) (string, error) {
	var buf bytes.Buffer
	if size > 0 {
		buf.Grow(int(size))
	}
	if _, err := io.Copy(&buf, body); err != nil {
		return "", err
	}
	key := strings.TrimLeft(objectKey, "/")
	s.mu.Lock()
	s.photos[key] = photo{data: buf.Bytes(), contentType: contentType, storedAt: time.Now().UTC()}
	s.mu.Unlock()
	return s.BaseURL + "/" + key, nil
}

// ServeHTTP expects the object key as the request path.
func (s *PhotoStore) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	key := strings.TrimLeft(r.URL.Path, "/")
	s.mu.RLock()
	p, ok := s.photos[key]
	s.mu.RUnlock()
	if !ok {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", p.contentType)
	http.ServeContent(w, r, key, p.storedAt, bytes.NewReader(p.data))
}
