package cached

import (
	"context"
	"time"

	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"

	"github.com/jwalitptl/herd-api/internal/model"
	"github.com/jwalitptl/herd-api/internal/repository"
)

// PreferenceRepository caches the active preference read model per farm.
// Every generation run and most alert reads consult the same small joined
// set, so a short TTL saves the join without risking stale rules for long.
type PreferenceRepository struct {
	inner repository.PreferenceRepository
	cache *gocache.Cache
	ttl   time.Duration
}

func NewPreferenceRepository(inner repository.PreferenceRepository, ttl time.Duration) *PreferenceRepository {
	return &PreferenceRepository{
		inner: inner,
		cache: gocache.New(ttl, 2*ttl),
		ttl:   ttl,
	}
}

func (r *PreferenceRepository) ListActiveForFarm(ctx context.Context, farmID uuid.UUID) ([]*model.FarmAlertPreference, error) {
	key := farmID.String()
	if cached, found := r.cache.Get(key); found {
		return cached.([]*model.FarmAlertPreference), nil
	}

	prefs, err := r.inner.ListActiveForFarm(ctx, farmID)
	if err != nil {
		return nil, err
	}

	r.cache.Set(key, prefs, r.ttl)
	return prefs, nil
}

// Invalidate drops the cached read model for a farm, used when preferences
// change or a caller forces regeneration
func (r *PreferenceRepository) Invalidate(farmID uuid.UUID) {
	r.cache.Delete(farmID.String())
}
