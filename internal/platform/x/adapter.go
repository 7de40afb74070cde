package x

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/trendr-agent/internal/config"
	"github.com/trendr-agent/internal/models"
	"github.com/trendr-agent/internal/platform"
	"github.com/trendr-agent/pkg/logger"
)

const (
	apiBaseURL = "https://api.twitter.com"

	// pageSize is the maximum allowed by the recent search endpoint
	pageSize = 100
)

// Adapter collects recent tweets matching search queries via the X API v2.
// Targets are search query strings; retweets are always excluded.
type Adapter struct {
	bearerToken string
	baseURL     string
	httpClient  *http.Client
	log         *logger.Logger
}

// New creates an X adapter from a bearer token
func New(cfg config.XConfig, log *logger.Logger) *Adapter {
	return &Adapter{
		bearerToken: cfg.BearerToken,
		baseURL:     apiBaseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		log: log.WithPlatform(string(models.PlatformX)),
	}
}

// Platform returns models.PlatformX
func (a *Adapter) Platform() models.Platform {
	return models.PlatformX
}

func (a *Adapter) get(ctx context.Context, path string, query url.Values, out any) error {
	u := a.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+a.bearerToken)

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusUnauthorized, http.StatusForbidden:
		return fmt.Errorf("x api rejected credentials: %s", resp.Status)
	case http.StatusTooManyRequests:
		return fmt.Errorf("x api rate limit exceeded: %s", resp.Status)
	default:
		return fmt.Errorf("x api request failed: %s", resp.Status)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode x api response: %w", err)
	}
	return nil
}

// TestConnection verifies the bearer token against /2/users/me
func (a *Adapter) TestConnection(ctx context.Context) error {
	var out struct {
		Data struct {
			ID string `json:"id"`
		} `json:"data"`
	}
	if err := a.get(ctx, "/2/users/me", nil, &out); err != nil {
		return fmt.Errorf("x connection test: %w", err)
	}
	return nil
}

type tweet struct {
	ID            string `json:"id"`
	Text          string `json:"text"`
	AuthorID      string `json:"author_id"`
	CreatedAt     string `json:"created_at"`
	PublicMetrics struct {
		LikeCount       int64  `json:"like_count"`
		ReplyCount      int64  `json:"reply_count"`
		RetweetCount    int64  `json:"retweet_count"`
		ImpressionCount *int64 `json:"impression_count"`
	} `json:"public_metrics"`
}

type user struct {
	ID            string `json:"id"`
	Username      string `json:"username"`
	Name          string `json:"name"`
	PublicMetrics *struct {
		FollowersCount int64 `json:"followers_count"`
	} `json:"public_metrics"`
}

type searchResponse struct {
	Data     []tweet `json:"data"`
	Includes struct {
		Users []user `json:"users"`
	} `json:"includes"`
}

// FetchPage runs one recent-search query and returns the matching tweets
func (a *Adapter) FetchPage(ctx context.Context, target string) ([]platform.RawItem, error) {
	query := url.Values{}
	query.Set("query", target+" -is:retweet")
	query.Set("max_results", fmt.Sprintf("%d", pageSize))
	query.Set("tweet.fields", "id,text,author_id,created_at,public_metrics")
	query.Set("user.fields", "id,username,name,public_metrics")
	query.Set("expansions", "author_id")

	var resp searchResponse
	if err := a.get(ctx, "/2/tweets/search/recent", query, &resp); err != nil {
		return nil, fmt.Errorf("search %q: %w", target, err)
	}

	users := make(map[string]user, len(resp.Includes.Users))
	for _, u := range resp.Includes.Users {
		users[u.ID] = u
	}

	items := make([]platform.RawItem, 0, len(resp.Data))
	for _, t := range resp.Data {
		items = append(items, toRawItem(t, users))
	}

	a.log.Debug().Str("query", target).Int("tweets", len(items)).Msg("Fetched search page")
	return items, nil
}

// toRawItem normalizes a tweet and its expanded author. The author expansion
// carries current follower counts, so the creator profile is marked fresh
// whenever the expansion resolved.
func toRawItem(t tweet, users map[string]user) platform.RawItem {
	author := platform.RawAuthor{PlatformID: t.AuthorID}
	if u, ok := users[t.AuthorID]; ok {
		author.Username = u.Username
		author.DisplayName = u.Name
		author.ProfileFresh = true
		if u.PublicMetrics != nil {
			followers := u.PublicMetrics.FollowersCount
			author.FollowerCount = &followers
		}
	}

	var publishedAt *time.Time
	if ts, err := time.Parse(time.RFC3339, t.CreatedAt); err == nil {
		ts = ts.UTC()
		publishedAt = &ts
	}

	return platform.RawItem{
		PlatformID:  t.ID,
		ContentType: models.ContentTypePost,
		Author:      author,
		Body:        t.Text,
		Likes:       t.PublicMetrics.LikeCount,
		Comments:    t.PublicMetrics.ReplyCount,
		Shares:      t.PublicMetrics.RetweetCount,
		Views:       t.PublicMetrics.ImpressionCount,
		PublishedAt: publishedAt,
	}
}

var _ platform.Adapter = (*Adapter)(nil)
