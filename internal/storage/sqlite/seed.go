package sqlite

import (
	"context"

	"github.com/google/uuid"

	"github.com/trendr-agent/internal/models"
)

// defaultTopics is the seed taxonomy loaded into an empty database.
var defaultTopics = []struct {
	Name     string
	Keywords []string
}{
	{"Cryptocurrency", []string{"bitcoin", "btc", "ethereum", "eth", "crypto", "blockchain", "defi", "nft"}},
	{"Stocks & Investing", []string{"stock", "invest", "dividend", "portfolio", "etf", "nasdaq", "trading"}},
	{"Real Estate", []string{"real estate", "property", "mortgage", "rental", "landlord", "housing", "reit"}},
	{"Side Hustles", []string{"side hustle", "passive income", "freelance", "gig", "dropshipping", "affiliate"}},
	{"Artificial Intelligence", []string{"ai", "artificial intelligence", "machine learning", "chatgpt", "llm", "openai"}},
	{"Gaming", []string{"gaming", "gamer", "esports", "twitch", "steam", "playstation", "xbox"}},
	{"Fitness & Health", []string{"fitness", "gym", "workout", "health", "nutrition", "diet", "protein"}},
	{"Personal Finance", []string{"budget", "savings", "debt", "fire", "retire", "financial", "credit"}},
	{"Entrepreneurship", []string{"startup", "entrepreneur", "business", "founder", "saas", "bootstrap"}},
	{"Content Creation", []string{"youtube", "content creator", "influencer", "subscriber", "viral", "monetization"}},
}

// SeedDefaultTopics inserts the default topic taxonomy when the topics table
// is empty. Returns the number of topics created (0 when already seeded).
func (r *Repository) SeedDefaultTopics(ctx context.Context) (int, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Topic{}).Count(&count).Error; err != nil {
		return 0, translateErr(err)
	}
	if count > 0 {
		return 0, nil
	}

	created := 0
	for _, seed := range defaultTopics {
		topic := &models.Topic{
			ID:       uuid.NewString(),
			Name:     seed.Name,
			Slug:     models.Slugify(seed.Name),
			Keywords: seed.Keywords,
		}
		if err := r.db.WithContext(ctx).Create(topic).Error; err != nil {
			return created, translateErr(err)
		}
		created++
	}

	return created, nil
}
