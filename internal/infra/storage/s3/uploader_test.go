package s3

import "testing"

func TestPublicBase(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
		want string
	}{
		{name: "endpoint without scheme", cfg: Config{Endpoint: "minio:9000"}, want: "http://minio:9000"},
		{name: "ssl endpoint", cfg: Config{Endpoint: "s3.example.cm", UseSSL: true}, want: "https://s3.example.cm"},
		{name: "public endpoint wins", cfg: Config{Endpoint: "minio:9000", PublicEndpoint: "http://localhost:9000/"}, want: "http://localhost:9000"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := publicBase(tc.cfg); got != tc.want {
				t.Fatalf("publicBase = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestObjectURLAndEndpoint(t *testing.T) {
	if got := objectURL("http://localhost:9000/", "rentcam-photos", "/listings/l-1/a.jpg"); got != "http://localhost:9000/rentcam-photos/listings/l-1/a.jpg" {
		t.Fatalf("objectURL = %q", got)
	}
	if got := parseEndpoint("https://minio.local:9000"); got != "minio.local:9000" {
		t.Fatalf("parseEndpoint = %q", got)
	}
	if got := parseEndpoint("minio:9000"); got != "minio:9000" {
		t.Fatalf("parseEndpoint bare = %q", got)
	}
}

func TestNewPhotoStoreValidatesConfig(t *testing.T) {
	if _, err := NewPhotoStore(Config{Bucket: "b"}, nil); err == nil {
		t.Fatalf("expected error for missing endpoint")
	}
	if _, err := NewPhotoStore(Config{Endpoint: "minio:9000"}, nil); err == nil {
		t.Fatalf("expected error for missing bucket")
	}
	store, err := NewPhotoStore(Config{Endpoint: "minio:9000", Bucket: "rentcam-photos"}, nil)
	if err != nil || store.publicBaseURL != "http://minio:9000" {
		t.Fatalf("unexpected store %+v err=%v", store, err)
	}
}
