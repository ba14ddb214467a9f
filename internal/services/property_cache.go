package services

import (
	"time"

	"github.com/google/uuid"
	"github.com/jellydator/ttlcache/v3"

	"github.com/Al-Min-Alina/AgenciesSolution-sub000/internal/models"
)

// PropertyCache is the explicit read cache for property lookups.
// Every mutation that can move is_available (deal create/update/delete,
// property update/delete) must call Invalidate for the touched rows;
// there is no background reconciliation.
type PropertyCache struct {
	c *ttlcache.Cache[uuid.UUID, *models.Property]
}

func NewPropertyCache(ttl time.Duration) *PropertyCache {
	c := ttlcache.New(
		ttlcache.WithTTL[uuid.UUID, *models.Property](ttl),
		ttlcache.WithDisableTouchOnHit[uuid.UUID, *models.Property](),
	)
	go c.Start()
	return &PropertyCache{c: c}
}

func (pc *PropertyCache) Get(id uuid.UUID) (*models.Property, bool) {
	item := pc.c.Get(id)
	if item == nil {
		return nil, false
	}
	return item.Value(), true
}

func (pc *PropertyCache) Set(p *models.Property) {
	pc.c.Set(p.ID, p, ttlcache.DefaultTTL)
}

func (pc *PropertyCache) Invalidate(id uuid.UUID) {
	pc.c.Delete(id)
}

func (pc *PropertyCache) Stop() {
	pc.c.Stop()
}
