package redis

import (
	"context"
	"math/rand"
	"sort"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"

	"quizwiz/internal/domain"
	"quizwiz/internal/infra/memory"
)

const categoriesKey = "trivia:categories"

// CategoryRepository caches the category list in Redis and falls back to a loader on miss.
// Categories are stored as: HSET trivia:categories {id} {name}
type CategoryRepository struct {
	client *redis.Client
	loader memory.CategoryLoader
	ttl    time.Duration
	sf     singleflight.Group
	rnd    *rand.Rand
}

func NewCategoryRepository(client *redis.Client, loader memory.CategoryLoader, ttl time.Duration) *CategoryRepository {
	return &CategoryRepository{
		client: client,
		loader: loader,
		ttl:    ttl,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (r *CategoryRepository) ListCategories(ctx context.Context) ([]domain.Category, error) {
	if cats, ok := r.cached(ctx); ok {
		return cats, nil
	}

	result, err, _ := r.sf.Do(categoriesKey, func() (interface{}, error) {
		// another caller may have filled the cache meanwhile
		if cats, ok := r.cached(ctx); ok {
			return cats, nil
		}

		cats, err := r.loader.LoadCategories(ctx)
		if err != nil {
			return nil, err
		}
		if len(cats) == 0 {
			return cats, nil
		}

		pipe := r.client.TxPipeline()
		pipe.Del(ctx, categoriesKey)
		for _, c := range cats {
			pipe.HSet(ctx, categoriesKey, strconv.Itoa(c.ID), c.Name)
		}
		if ttl := r.ttlWithJitter(); ttl > 0 {
			pipe.Expire(ctx, categoriesKey, ttl)
		}
		_, _ = pipe.Exec(ctx)
		return cats, nil
	})
	if err != nil {
		return nil, err
	}
	return append([]domain.Category(nil), result.([]domain.Category)...), nil
}

func (r *CategoryRepository) cached(ctx context.Context) ([]domain.Category, bool) {
	raw, err := r.client.HGetAll(ctx, categoriesKey).Result()
	if err != nil || len(raw) == 0 {
		return nil, false
	}
	cats := make([]domain.Category, 0, len(raw))
	for id, name := range raw {
		n, err := strconv.Atoi(id)
		if err != nil {
			continue
		}
		cats = append(cats, domain.Category{ID: n, Name: name})
	}
	sort.Slice(cats, func(i, j int) bool { return cats[i].ID < cats[j].ID })
	return cats, true
}

func (r *CategoryRepository) ttlWithJitter() time.Duration {
	if r.ttl <= 0 {
		return 0
	}
	jitterMax := int64(r.ttl) / 10
	return r.ttl + time.Duration(r.rnd.Int63n(jitterMax+1))
}
