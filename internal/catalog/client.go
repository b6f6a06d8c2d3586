// Package catalog fetches candidate videos from the external video catalog
// and normalizes them into domain records.
package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/jonesrussell/scorefree/internal/domain"
	"github.com/jonesrussell/scorefree/internal/logger"
)

// ErrUnavailable indicates the catalog could not be reached or answered with
// a failure. Callers treat it as per-category, never fatal to a whole pass.
var ErrUnavailable = errors.New("catalog unavailable")

const (
	defaultMaxResults    = 5
	defaultRecencyWindow = 12 * time.Hour
	defaultTimeout       = 30 * time.Second

	defaultMaxIdleConns        = 100
	defaultMaxIdleConnsPerHost = 10
	defaultIdleConnTimeout     = 90 * time.Second
)

// searchSuffix biases the catalog query toward highlight content and away
// from scoreboard content before the classifier ever runs.
const searchSuffix = "highlights skills plays amazing moments -score -final -result -vs -defeat -win -loss"

// ClientConfig configures the catalog client.
type ClientConfig struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
	// RecencyWindow restricts searches to videos published within this span
	// before the call.
	RecencyWindow time.Duration
}

// Client talks to the external video catalog API. It performs two sequential
// calls per search: a category search for candidate ids and snippets, then a
// detail lookup for duration and view count.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	window     time.Duration
	logger     logger.Logger

	// now is replaceable in tests to pin the recency bound.
	now func() time.Time
}

// NewClient creates a catalog client. A nil httpClient gets a pooled default.
func NewClient(cfg ClientConfig, httpClient *http.Client, log logger.Logger) *Client {
	if log == nil {
		log = logger.NewNop()
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = defaultTimeout
	}
	if cfg.RecencyWindow == 0 {
		cfg.RecencyWindow = defaultRecencyWindow
	}
	if httpClient == nil {
		httpClient = &http.Client{
			Timeout: cfg.Timeout,
			Transport: &http.Transport{
				MaxIdleConns:        defaultMaxIdleConns,
				MaxIdleConnsPerHost: defaultMaxIdleConnsPerHost,
				IdleConnTimeout:     defaultIdleConnTimeout,
			},
		}
	}

	return &Client{
		httpClient: httpClient,
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:     cfg.APIKey,
		window:     cfg.RecencyWindow,
		logger:     log,
		now:        time.Now,
	}
}

type searchResponse struct {
	Items []struct {
		ID struct {
			VideoID string `json:"videoId"`
		} `json:"id"`
		Snippet struct {
			Title       string `json:"title"`
			Description string `json:"description"`
			Thumbnails  struct {
				High struct {
					URL string `json:"url"`
				} `json:"high"`
			} `json:"thumbnails"`
			ChannelTitle string    `json:"channelTitle"`
			PublishedAt  time.Time `json:"publishedAt"`
		} `json:"snippet"`
	} `json:"items"`
}

type detailsResponse struct {
	Items []struct {
		ID             string `json:"id"`
		ContentDetails struct {
			Duration string `json:"duration"`
		} `json:"contentDetails"`
		Statistics struct {
			ViewCount string `json:"viewCount"`
		} `json:"statistics"`
	} `json:"items"`
}

// Search returns up to maxResults recent candidate videos for a category,
// normalized into unclassified VideoRecords (Category pre-populated,
// IsScoreFree defaulted true pending classification).
func (c *Client) Search(ctx context.Context, category string, maxResults int) ([]domain.VideoRecord, error) {
	if maxResults <= 0 {
		maxResults = defaultMaxResults
	}

	publishedAfter := c.now().Add(-c.window).UTC().Format(time.RFC3339)

	params := url.Values{}
	params.Set("part", "snippet")
	params.Set("q", category+" "+searchSuffix)
	params.Set("type", "video")
	params.Set("order", "date")
	params.Set("publishedAfter", publishedAfter)
	params.Set("maxResults", strconv.Itoa(maxResults))
	params.Set("key", c.apiKey)

	var search searchResponse
	if err := c.get(ctx, "/search", params, &search); err != nil {
		return nil, fmt.Errorf("search %q: %w", category, err)
	}

	if len(search.Items) == 0 {
		return []domain.VideoRecord{}, nil
	}

	ids := make([]string, 0, len(search.Items))
	for _, item := range search.Items {
		ids = append(ids, item.ID.VideoID)
	}

	detailParams := url.Values{}
	detailParams.Set("part", "contentDetails,statistics")
	detailParams.Set("id", strings.Join(ids, ","))
	detailParams.Set("key", c.apiKey)

	var details detailsResponse
	if err := c.get(ctx, "/videos", detailParams, &details); err != nil {
		return nil, fmt.Errorf("details for %q: %w", category, err)
	}

	detailsByID := make(map[string]int, len(details.Items))
	for i, item := range details.Items {
		detailsByID[item.ID] = i
	}

	videos := make([]domain.VideoRecord, 0, len(search.Items))
	for _, item := range search.Items {
		record := domain.VideoRecord{
			ExternalID:   item.ID.VideoID,
			Title:        item.Snippet.Title,
			Description:  item.Snippet.Description,
			ThumbnailURL: item.Snippet.Thumbnails.High.URL,
			ChannelName:  item.Snippet.ChannelTitle,
			PublishedAt:  item.Snippet.PublishedAt,
			DurationISO:  "PT0S",
			Category:     category,
			IsScoreFree:  true, // pending classification
		}
		if i, ok := detailsByID[item.ID.VideoID]; ok {
			detail := details.Items[i]
			if detail.ContentDetails.Duration != "" {
				record.DurationISO = detail.ContentDetails.Duration
			}
			if count, err := strconv.ParseInt(detail.Statistics.ViewCount, 10, 64); err == nil {
				record.ViewCount = count
			}
		}
		videos = append(videos, record)
	}

	c.logger.Debug("catalog search complete",
		logger.String("category", category),
		logger.Int("results", len(videos)),
	)

	return videos, nil
}

// get performs one catalog API call and decodes the JSON response. Any
// transport failure, non-2xx status, or malformed body maps to
// ErrUnavailable.
func (c *Client) get(ctx context.Context, path string, params url.Values, out any) error {
	reqURL := c.baseURL + path + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return fmt.Errorf("%w: %s returned status %d", ErrUnavailable, path, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: decode %s response: %v", ErrUnavailable, path, err)
	}

	return nil
}
