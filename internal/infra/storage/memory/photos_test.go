package memory

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestPhotoStoreUploadAndServe(t *testing.T) {
	store := NewPhotoStore("/static/photos/")
	url, err := store.Upload(context.Background(), "listings/l-1/cover.jpg", strings.NewReader("jpeg-bytes"), 10, "image/jpeg")
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	if url != "/static/photos/listings/l-1/cover.jpg" {
		t.Fatalf("url = %q", url)
	}

	rec := httptest.NewRecorder()
	store.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/listings/l-1/cover.jpg", nil))
	if rec.Code != http.StatusOK || rec.Body.String() != "jpeg-bytes" {
		t.Fatalf("serve: %d %q", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); ct != "image/jpeg" {
		t.Fatalf("content type = %q", ct)
	}

	rec = httptest.NewRecorder()
	store.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/listings/l-1/missing.jpg", nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("missing photo status = %d", rec.Code)
	}
}
