package service

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"eventdesk/backend/internal/cache"
	"eventdesk/backend/internal/domain"
	"eventdesk/backend/internal/economics"
	"eventdesk/backend/internal/store"
)

type actorContextKey struct{}

func WithActor(ctx context.Context, actor domain.Actor) context.Context {
	return context.WithValue(ctx, actorContextKey{}, actor)
}

func ActorFromContext(ctx context.Context) (domain.Actor, bool) {
	actor, ok := ctx.Value(actorContextKey{}).(domain.Actor)
	return actor, ok
}

// Keys of the unfiltered lists kept in the list cache. Filtered reads always
// go to the repository.
const (
	keyCompanies  = "companies"
	keyEvents     = "events"
	keyBarmans    = "barmans"
	keyProducts   = "products"
	keyTasks      = "tasks"
	keyQuickLinks = "quick_links"
	keyExpenses   = "expenses"
)

type Service struct {
	repo     store.Repository
	cache    cache.ListCache
	cacheTTL time.Duration
	rates    economics.Rates
	logger   *zap.Logger
	now      func() time.Time
}

func New(repo store.Repository, listCache cache.ListCache, cacheTTL time.Duration, rates economics.Rates, logger *zap.Logger) *Service {
	if listCache == nil {
		listCache = cache.NoopListCache{}
	}
	if cacheTTL <= 0 {
		cacheTTL = time.Minute
	}
	if !rates.HourlyRate.IsPositive() {
		rates = economics.DefaultRates()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		repo:     repo,
		cache:    listCache,
		cacheTTL: cacheTTL,
		rates:    rates,
		logger:   logger.Named("service"),
		now:      func() time.Time { return time.Now().UTC() },
	}
}

func (s *Service) Rates() economics.Rates {
	return s.rates
}

// BackfillStockModes classifies products stored before stock modes existed.
// It is run once at startup.
func (s *Service) BackfillStockModes(ctx context.Context) (int, error) {
	n, err := s.repo.BackfillStockModes(ctx, economics.ClassifyName)
	if err != nil {
		return 0, fmt.Errorf("backfill stock modes: %w", err)
	}
	if n > 0 {
		s.invalidate(ctx, keyProducts)
		s.logger.Info("classified legacy products", zap.Int("count", n))
	}
	return n, nil
}

func cachedList[T any](ctx context.Context, s *Service, key string, load func(context.Context) ([]T, error)) ([]T, error) {
	var cached []T
	found, err := s.cache.Get(ctx, key, &cached)
	if err != nil {
		s.logger.Warn("list cache read failed", zap.String("key", key), zap.Error(err))
	} else if found {
		return cached, nil
	}

	items, err := load(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.cache.Set(ctx, key, items, s.cacheTTL); err != nil {
		s.logger.Warn("list cache write failed", zap.String("key", key), zap.Error(err))
	}
	return items, nil
}

// invalidate drops cached lists after a write. Failures only cost freshness
// until the TTL expires, so they are logged and swallowed.
func (s *Service) invalidate(ctx context.Context, keys ...string) {
	if err := s.cache.Delete(ctx, keys...); err != nil {
		s.logger.Warn("list cache invalidation failed", zap.Strings("keys", keys), zap.Error(err))
	}
}

func (s *Service) logWrite(ctx context.Context, action string, entityID string) {
	actor, _ := ActorFromContext(ctx)
	s.logger.Info(action, zap.String("id", entityID), zap.String("actor", actor.Email))
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", store.ErrInvalidInput, fmt.Sprintf(format, args...))
}

func nonNegative(field string, d decimal.Decimal) error {
	if d.IsNegative() {
		return invalid("%s must not be negative", field)
	}
	return nil
}

func vatRate(field string, d decimal.Decimal) error {
	if d.IsNegative() || d.GreaterThan(decimal.NewFromInt(100)) {
		return invalid("%s must be between 0 and 100", field)
	}
	return nil
}

func nonNegativeCounts(counts map[string]domain.Count) error {
	for field, c := range counts {
		if c < 0 {
			return invalid("%s must not be negative", field)
		}
		if c > domain.MaxCount {
			return invalid("%s must not exceed %d", field, domain.MaxCount)
		}
	}
	return nil
}
