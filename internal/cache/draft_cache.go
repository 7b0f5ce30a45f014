package cache

import (
	"context"
	"encoding/json"
	"time"

	"inspectkit/internal/model"

	"github.com/redis/go-redis/v9"
)

// DraftCache holds the unsaved-new-template draft per operator so an
// abandoned editing session can be recovered. Cleared on successful create
// or explicit discard.
type DraftCache interface {
	Set(ctx context.Context, operatorID string, tpl *model.Template) error
	Get(ctx context.Context, operatorID string) (*model.Template, error)
	Delete(ctx context.Context, operatorID string) error
}

type draftCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewDraftCache creates a new draft cache
func NewDraftCache(client *redis.Client) DraftCache {
	return &draftCache{
		client: client,
		ttl:    24 * time.Hour,
	}
}

func (c *draftCache) key(operatorID string) string {
	return "inspection_template_draft:" + operatorID
}

func (c *draftCache) Set(ctx context.Context, operatorID string, tpl *model.Template) error {
	data, err := json.Marshal(tpl)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, c.key(operatorID), data, c.ttl).Err()
}

func (c *draftCache) Get(ctx context.Context, operatorID string) (*model.Template, error) {
	data, err := c.client.Get(ctx, c.key(operatorID)).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var tpl model.Template
	if err := json.Unmarshal([]byte(data), &tpl); err != nil {
		return nil, err
	}
	return &tpl, nil
}

func (c *draftCache) Delete(ctx context.Context, operatorID string) error {
	return c.client.Del(ctx, c.key(operatorID)).Err()
}
