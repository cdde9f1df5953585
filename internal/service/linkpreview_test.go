package service

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestLinkPreviewTitle(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html><head><title>  Канал ONI  </title></head><body></body></html>`))
	}))
	defer srv.Close()

	preview := NewLinkPreview(5 * time.Second)
	title, err := preview.Title(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("Title: %v", err)
	}
	if title != "Канал ONI" {
		t.Fatalf("title = %q, want %q", title, "Канал ONI")
	}
}

func TestLinkPreviewNoTitle(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html><body>nothing here</body></html>`))
	}))
	defer srv.Close()

	preview := NewLinkPreview(5 * time.Second)
	title, err := preview.Title(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("Title: %v", err)
	}
	if title != "" {
		t.Fatalf("title = %q, want empty", title)
	}
}

func TestLinkPreviewBadStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	preview := NewLinkPreview(5 * time.Second)
	if _, err := preview.Title(context.Background(), srv.URL); err == nil {
		t.Fatal("expected error for non-200 response")
	}
}
