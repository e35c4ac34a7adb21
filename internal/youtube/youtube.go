// Package youtube extracts video ids from YouTube links and looks up video
// titles through the public oEmbed endpoint.
package youtube

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"go.uber.org/zap"
)

const oembedURL = "https://www.youtube.com/oembed"

// FallbackTitle is used when the oEmbed lookup fails.
const FallbackTitle = "Video Title (Fetch Failed)"

var (
	idPattern    = regexp.MustCompile(`^[a-zA-Z0-9_-]{11}$`)
	embedPattern = regexp.MustCompile(`/embed/([a-zA-Z0-9_-]{11})`)
	shortPattern = regexp.MustCompile(`youtu\.be/([a-zA-Z0-9_-]{11})`)
)

// ExtractID returns the 11 character video id for watch, embed and youtu.be
// links, or for a bare id. ok is false for anything else.
func ExtractID(raw string) (id string, ok bool) {
	raw = strings.TrimSpace(raw)
	switch {
	case strings.Contains(raw, "youtube.com"):
		if strings.Contains(raw, "/watch?") {
			u, err := url.Parse(raw)
			if err != nil {
				return "", false
			}
			v := u.Query().Get("v")
			return v, v != ""
		}
		if m := embedPattern.FindStringSubmatch(raw); m != nil {
			return m[1], true
		}
	case strings.Contains(raw, "youtu.be"):
		if m := shortPattern.FindStringSubmatch(raw); m != nil {
			return m[1], true
		}
	case idPattern.MatchString(raw):
		return raw, true
	}
	return "", false
}

// EmbedURL builds the embeddable player URL for a video id.
func EmbedURL(id string) string {
	return "https://www.youtube.com/embed/" + id
}

// Metadata is the subset of oEmbed fields we keep.
type Metadata struct {
	Title     string `json:"title"`
	Author    string `json:"author_name"`
	Thumbnail string `json:"thumbnail_url"`
}

// MetadataFetcher resolves a video id to its metadata.
type MetadataFetcher interface {
	Fetch(ctx context.Context, videoID string) Metadata
}

// OEmbedClient fetches metadata from the YouTube oEmbed endpoint.
type OEmbedClient struct {
	baseURL string
	client  *http.Client
	logger  *zap.Logger
}

// NewOEmbedClient creates a client with the given request timeout
func NewOEmbedClient(timeout time.Duration, logger *zap.Logger) *OEmbedClient {
	return &OEmbedClient{
		baseURL: oembedURL,
		client:  &http.Client{Timeout: timeout},
		logger:  logger,
	}
}

// Fetch never fails: on any error it logs and returns placeholder metadata.
func (c *OEmbedClient) Fetch(ctx context.Context, videoID string) Metadata {
	md, err := c.fetch(ctx, videoID)
	if err != nil {
		c.logger.Warn("YouTube metadata lookup failed",
			zap.String("video_id", videoID),
			zap.Error(err))
		return Metadata{Title: FallbackTitle, Author: "Unknown"}
	}
	if md.Title == "" {
		md.Title = "Unknown Title"
	}
	return md
}

func (c *OEmbedClient) fetch(ctx context.Context, videoID string) (Metadata, error) {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return Metadata{}, err
	}
	q := u.Query()
	q.Set("url", "https://www.youtube.com/watch?v="+videoID)
	q.Set("format", "json")
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return Metadata{}, err
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return Metadata{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Metadata{}, fmt.Errorf("oembed returned status %d", resp.StatusCode)
	}

	var md Metadata
	if err := json.NewDecoder(resp.Body).Decode(&md); err != nil {
		return Metadata{}, fmt.Errorf("failed to decode oembed response: %w", err)
	}
	return md, nil
}
