package store

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestRESTStore_ReadWrite(t *testing.T) {
	docs := map[string]string{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("auth"); got != "secret" {
			t.Errorf("auth = %q, want secret", got)
		}
		switch r.Method {
		case http.MethodGet:
			body, ok := docs[r.URL.Path]
			if !ok {
				io.WriteString(w, "null")
				return
			}
			io.WriteString(w, body)
		case http.MethodPut:
			body, _ := io.ReadAll(r.Body)
			docs[r.URL.Path] = string(body)
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
	}))
	defer srv.Close()

	s := NewRESTStore(srv.URL, "secret", "")
	ctx := context.Background()

	if err := s.Write(ctx, DocPriceCache, map[string]float64{"AAPL": 160}); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, ok := docs["/"+DocPriceCache+".json"]; !ok {
		t.Fatalf("document not stored, have %v", docs)
	}

	out := make(map[string]float64)
	if err := s.Read(ctx, DocPriceCache, &out); err != nil {
		t.Fatalf("read: %v", err)
	}
	if out["AAPL"] != 160 {
		t.Errorf("read back = %v", out)
	}
}

func TestRESTStore_NullBodyIsNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, "null")
	}))
	defer srv.Close()

	s := NewRESTStore(srv.URL, "", "")
	var out map[string]float64
	if err := s.Read(context.Background(), "missing", &out); !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestRESTStore_ErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "permission denied", http.StatusUnauthorized)
	}))
	defer srv.Close()

	s := NewRESTStore(srv.URL, "", "")
	ctx := context.Background()

	var out map[string]float64
	if err := s.Read(ctx, "doc", &out); err == nil || errors.Is(err, ErrNotFound) {
		t.Errorf("read err = %v, want a non-NotFound error", err)
	}
	if err := s.Write(ctx, "doc", out); err == nil {
		t.Error("write: expected error for 401 status")
	}
}
