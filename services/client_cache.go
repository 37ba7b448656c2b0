package services

import (
	"context"
	"fmt"
	"time"

	"github.com/dgraph-io/ristretto"
	"github.com/eko/gocache/lib/v4/cache"
	"github.com/eko/gocache/lib/v4/store"
	ristretto_store "github.com/eko/gocache/store/ristretto/v4"
	"google.golang.org/genai"

	"sareeapi/pkg/logger"
)

const providerClientTTL = time.Hour

// ContentGenerator is the part of the genai client the gateway uses. *genai.Models implements it.
type ContentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// ClientFactory opens a provider client for one credential.
type ClientFactory func(ctx context.Context, apiKey string) (ContentGenerator, error)

func GenAIClientFactory(ctx context.Context, apiKey string) (ContentGenerator, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}
	return client.Models, nil
}

// ClientCache keeps one provider client per credential.
type ClientCache struct {
	cache *cache.LoadableCache[ContentGenerator]
}

func NewClientCache(factory ClientFactory) (*ClientCache, error) {
	ristrettoCache, err := ristretto.NewCache(&ristretto.Config{
		NumCounters: 1000,
		MaxCost:     100,
		BufferItems: 64,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create ristretto cache: %w", err)
	}
	ristrettoStore := ristretto_store.NewRistretto(ristrettoCache)

	loadFunction := func(ctx context.Context, key any) (ContentGenerator, []store.Option, error) {
		apiKey, ok := key.(string)
		if !ok {
			return nil, nil, fmt.Errorf("invalid key type provided to client cache: expected string, got %T", key)
		}
		logger.Debug("Opening provider client", logger.Fields{"credential": MaskCredential(apiKey)})
		client, err := factory(ctx, apiKey)
		return client, []store.Option{store.WithExpiration(providerClientTTL), store.WithCost(1)}, err
	}

	return &ClientCache{
		cache: cache.NewLoadable[ContentGenerator](
			loadFunction,
			cache.New[ContentGenerator](ristrettoStore),
		),
	}, nil
}

func (c *ClientCache) Get(ctx context.Context, apiKey string) (ContentGenerator, error) {
	if apiKey == "" {
		return nil, ErrNoCredential
	}
	return c.cache.Get(ctx, apiKey)
}
