package imagehost

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/erazemk/garancija/internal/db"
)

func TestLocalUploaderRoundTrip(t *testing.T) {
	u := NewLocalUploader(db.NewTestDB(t), "http://localhost:8080/")
	ctx := context.Background()

	url, err := u.Upload(ctx, []byte("photo bytes"), "image/jpeg", "sesalnik.jpg")
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}
	if !strings.HasPrefix(url, "http://localhost:8080/images/") {
		t.Errorf("unexpected URL %q", url)
	}

	// The id is the last path segment.
	id, err := strconv.ParseInt(url[strings.LastIndex(url, "/")+1:], 10, 64)
	if err != nil {
		t.Fatalf("parsing id from %q: %v", url, err)
	}

	data, mime, err := u.Get(ctx, id)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if string(data) != "photo bytes" {
		t.Errorf("expected stored bytes back, got %q", string(data))
	}
	if mime != "image/jpeg" {
		t.Errorf("expected image/jpeg, got %q", mime)
	}
}

func TestLocalUploaderUnknownID(t *testing.T) {
	u := NewLocalUploader(db.NewTestDB(t), "http://localhost:8080")

	data, _, err := u.Get(context.Background(), 999)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if data != nil {
		t.Error("expected nil data for unknown id")
	}
}

func TestHTTPUploader(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(10 << 20); err != nil {
			http.Error(w, "bad form", http.StatusBadRequest)
			return
		}
		file, header, err := r.FormFile("image")
		if err != nil {
			http.Error(w, "missing image", http.StatusBadRequest)
			return
		}
		defer file.Close()
		body, _ := io.ReadAll(file)
		if string(body) != "photo bytes" || header.Filename != "telefon.jpg" {
			http.Error(w, "wrong upload", http.StatusBadRequest)
			return
		}
		json.NewEncoder(w).Encode(map[string]string{"url": "http://img.example/abc.jpg"})
	}))
	t.Cleanup(server.Close)

	u := NewHTTPUploader(server.URL, "token")
	url, err := u.Upload(context.Background(), []byte("photo bytes"), "image/jpeg", "telefon.jpg")
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}
	if url != "http://img.example/abc.jpg" {
		t.Errorf("unexpected URL %q", url)
	}
}

func TestHTTPUploaderErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota exceeded", http.StatusForbidden)
	}))
	t.Cleanup(server.Close)

	u := NewHTTPUploader(server.URL, "")
	if _, err := u.Upload(context.Background(), []byte("x"), "image/jpeg", "x.jpg"); err == nil {
		t.Error("expected error for rejected upload")
	}
}
