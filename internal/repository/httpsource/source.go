// Package httpsource fetches lesson content from a static HTTP origin.
package httpsource

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"lessonview/internal/config"
	"lessonview/internal/domain"
	repo "lessonview/internal/domain/repositories/workspace"
)

// Source issues GET {base}/{path} for each lesson file
type Source struct {
	base   string
	client *http.Client
}

var _ repo.ContentSource = (*Source)(nil)

// NewSource creates a source for baseURL. Timeouts are the client's concern.
func NewSource(baseURL string, client *http.Client) (*Source, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse content base url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, domain.NewValidation("base_url", "content base url must be http or https, got %q", baseURL)
	}
	if client == nil {
		client = http.DefaultClient
	}
	return &Source{
		base:   strings.TrimSuffix(baseURL, "/"),
		client: client,
	}, nil
}

func (s *Source) Name() string {
	return "http:" + s.base
}

// Fetch returns the response body for path.
// 404 maps to ErrNotFound, 5xx to ErrUnavailable.
func (s *Source) Fetch(ctx context.Context, path string) (string, error) {
	target := s.base + "/" + escapePath(path)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return "", fmt.Errorf("build request for %s: %w", path, err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: fetch %s: %v", domain.ErrUnavailable, path, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return "", domain.NewNotFound("lesson file", path)
	case resp.StatusCode >= 500:
		return "", fmt.Errorf("%w: fetch %s: status %d", domain.ErrUnavailable, path, resp.StatusCode)
	case resp.StatusCode != http.StatusOK:
		return "", fmt.Errorf("fetch %s: unexpected status %d", path, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, config.MaxContentBytes+1))
	if err != nil {
		return "", fmt.Errorf("read %s: %w", path, err)
	}
	if len(body) > config.MaxContentBytes {
		return "", domain.NewValidation("content", "%s exceeds %d bytes", path, config.MaxContentBytes)
	}
	return string(body), nil
}

func escapePath(path string) string {
	segments := strings.Split(path, "/")
	for i, seg := range segments {
		segments[i] = url.PathEscape(seg)
	}
	return strings.Join(segments, "/")
}
