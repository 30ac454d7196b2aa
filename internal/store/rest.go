package store

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// RESTStore talks to a remote JSON document store over HTTP: documents live at
// <base>/<name>.json and are fetched with GET and replaced with PUT. An
// optional auth token is passed as a query parameter, the way realtime-database
// style backends expect it.
type RESTStore struct {
	BaseURL string
	Auth    string
	Client  *http.Client
}

// NewRESTStore creates a store client with optional proxy support.
func NewRESTStore(baseURL, auth, proxyURL string) *RESTStore {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	return &RESTStore{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Auth:    auth,
		Client: &http.Client{
			Timeout:   30 * time.Second,
			Transport: transport,
		},
	}
}

func (s *RESTStore) docURL(name string) string {
	addr := s.BaseURL + "/" + name + ".json"
	if s.Auth != "" {
		addr += "?auth=" + url.QueryEscape(s.Auth)
	}
	return addr
}

func (s *RESTStore) Read(ctx context.Context, name string, v any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.docURL(name), nil)
	if err != nil {
		return err
	}
	resp, err := s.Client.Do(req)
	if err != nil {
		return fmt.Errorf("read %s: %w", name, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return ErrNotFound
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read %s body: %w", name, err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("read %s: status %d, body: %s", name, resp.StatusCode, string(body))
	}
	// A missing document comes back as the JSON literal null.
	if string(bytes.TrimSpace(body)) == "null" {
		return ErrNotFound
	}
	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("decode %s: %w", name, err)
	}
	return nil
}

func (s *RESTStore) Write(ctx context.Context, name string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", name, err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, s.docURL(name), bytes.NewReader(data))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := s.Client.Do(req)
	if err != nil {
		return fmt.Errorf("write %s: %w", name, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNoContent {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("write %s: status %d, body: %s", name, resp.StatusCode, string(body))
	}
	return nil
}
