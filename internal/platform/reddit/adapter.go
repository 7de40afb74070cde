package reddit

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"golang.org/x/oauth2"

	"github.com/trendr-agent/internal/config"
	"github.com/trendr-agent/internal/models"
	"github.com/trendr-agent/internal/platform"
	"github.com/trendr-agent/pkg/logger"
)

const (
	apiBaseURL = "https://oauth.reddit.com"
	tokenURL   = "https://www.reddit.com/api/v1/access_token"
	userAgent  = "trendr-agent/1.0"

	// pageSize is the number of hot posts fetched per subreddit
	pageSize = 25
)

// Adapter collects hot posts from subreddits via the Reddit OAuth API.
// Targets are subreddit names.
type Adapter struct {
	oauth      *oauth2.Config
	username   string
	password   string
	baseURL    string
	httpClient *http.Client
	log        *logger.Logger

	mu    sync.Mutex
	token *oauth2.Token
}

// New creates a Reddit adapter from credentials
func New(cfg config.RedditConfig, log *logger.Logger) *Adapter {
	return &Adapter{
		oauth: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			Endpoint: oauth2.Endpoint{
				TokenURL:  tokenURL,
				AuthStyle: oauth2.AuthStyleInHeader,
			},
		},
		username: cfg.Username,
		password: cfg.Password,
		baseURL:  apiBaseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		log: log.WithPlatform(string(models.PlatformReddit)),
	}
}

// Platform returns models.PlatformReddit
func (a *Adapter) Platform() models.Platform {
	return models.PlatformReddit
}

// accessToken returns a valid bearer token, exchanging the resource-owner
// password credentials when the cached token is missing or expired.
func (a *Adapter) accessToken(ctx context.Context) (string, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.token != nil && a.token.Valid() {
		return a.token.AccessToken, nil
	}

	// Reddit rejects token requests without a distinctive User-Agent
	ctx = context.WithValue(ctx, oauth2.HTTPClient, &http.Client{
		Timeout:   30 * time.Second,
		Transport: userAgentTransport{base: http.DefaultTransport},
	})

	token, err := a.oauth.PasswordCredentialsToken(ctx, a.username, a.password)
	if err != nil {
		return "", fmt.Errorf("reddit token exchange: %w", err)
	}

	a.token = token
	return token.AccessToken, nil
}

// TestConnection verifies the configured credentials against /api/v1/me
func (a *Adapter) TestConnection(ctx context.Context) error {
	token, err := a.accessToken(ctx)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.baseURL+"/api/v1/me", nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("User-Agent", userAgent)

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("reddit connection test: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("reddit connection test failed: %s", resp.Status)
	}
	return nil
}

// listing mirrors the Reddit listing envelope
type listing struct {
	Data struct {
		Children []struct {
			Data post `json:"data"`
		} `json:"children"`
	} `json:"data"`
}

type post struct {
	ID          string  `json:"id"`
	Subreddit   string  `json:"subreddit"`
	Author      string  `json:"author"`
	Title       string  `json:"title"`
	Selftext    string  `json:"selftext"`
	Score       int64   `json:"score"`
	NumComments int64   `json:"num_comments"`
	CreatedUTC  float64 `json:"created_utc"`
	Permalink   string  `json:"permalink"`
}

// FetchPage retrieves one page of hot posts for a subreddit
func (a *Adapter) FetchPage(ctx context.Context, target string) ([]platform.RawItem, error) {
	token, err := a.accessToken(ctx)
	if err != nil {
		return nil, err
	}

	url := fmt.Sprintf("%s/r/%s/hot?limit=%d", a.baseURL, target, pageSize)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("User-Agent", userAgent)

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch r/%s: %w", target, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch r/%s: %s", target, resp.Status)
	}

	var page listing
	if err := json.NewDecoder(resp.Body).Decode(&page); err != nil {
		return nil, fmt.Errorf("decode r/%s listing: %w", target, err)
	}

	items := make([]platform.RawItem, 0, len(page.Data.Children))
	for _, child := range page.Data.Children {
		items = append(items, toRawItem(child.Data))
	}

	a.log.Debug().Str("subreddit", target).Int("posts", len(items)).Msg("Fetched subreddit page")
	return items, nil
}

// toRawItem normalizes a Reddit post. Reddit identifies authors by username
// and ships no profile metadata with listings, so the creator profile is
// never refreshed from here.
func toRawItem(p post) platform.RawItem {
	var publishedAt *time.Time
	if p.CreatedUTC > 0 {
		t := time.Unix(int64(p.CreatedUTC), 0).UTC()
		publishedAt = &t
	}

	return platform.RawItem{
		PlatformID:  p.ID,
		ContentType: models.ContentTypePost,
		Author: platform.RawAuthor{
			PlatformID: p.Author,
			Username:   p.Author,
		},
		Title:       p.Title,
		Body:        p.Selftext,
		Likes:       p.Score,
		Comments:    p.NumComments,
		PublishedAt: publishedAt,
	}
}

// userAgentTransport stamps the Reddit User-Agent on token requests
type userAgentTransport struct {
	base http.RoundTripper
}

func (t userAgentTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req.Header.Set("User-Agent", userAgent)
	return t.base.RoundTrip(req)
}

// Ensure Adapter implements platform.Adapter
var _ platform.Adapter = (*Adapter)(nil)
