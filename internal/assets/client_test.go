package assets

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestClient_FetchShots(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/collections/col-1/shots" {
			t.Errorf("path = %s, want /api/collections/col-1/shots", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer tok" {
			t.Errorf("Authorization = %q, want bearer token", got)
		}
		w.Write([]byte(`{"shots":[
			{"id":"s1","videoUrl":"https://cdn/v1.mp4","audioUrl":"https://cdn/a1.mp3","duration":2.5,"voice_over":"hello"},
			{"id":"s2","imageUrl":"https://cdn/i2.png","duration":3}
		]}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "tok", nil)
	shots, err := client.FetchShots(context.Background(), "col-1")
	if err != nil {
		t.Fatalf("FetchShots() error = %v", err)
	}
	if len(shots) != 2 {
		t.Fatalf("shot count = %d, want 2", len(shots))
	}
	if shots[0].VideoURL != "https://cdn/v1.mp4" || shots[0].DurationS != 2.5 || shots[0].VoiceOver != "hello" {
		t.Errorf("first shot = %+v", shots[0])
	}
	if shots[1].ImageURL != "https://cdn/i2.png" {
		t.Errorf("second shot = %+v", shots[1])
	}
}

func TestClient_FetchShots_Error(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "collection not found", http.StatusNotFound)
	}))
	defer server.Close()

	client := NewClient(server.URL, "", nil)
	_, err := client.FetchShots(context.Background(), "missing")

	var cerr *ContentError
	if !errors.As(err, &cerr) {
		t.Fatalf("FetchShots() error = %v, want *ContentError", err)
	}
	if cerr.StatusCode != http.StatusNotFound || cerr.IsRetryable() {
		t.Errorf("error = %+v, want permanent 404", cerr)
	}
}
