// Package testhelpers provides in-memory fake repositories used by the
// service and controller tests. The deal fake honors the same contract
// the SQL implementation does: conflict check before the write,
// availability recomputed from the completed-deal predicate after it.
package testhelpers

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"

	"github.com/Al-Min-Alina/AgenciesSolution-sub000/internal/models"
	"github.com/Al-Min-Alina/AgenciesSolution-sub000/internal/repositories"
	"github.com/Al-Min-Alina/AgenciesSolution-sub000/internal/utils"
)

type FakeStore struct {
	mu sync.Mutex

	users      map[uuid.UUID]*models.User
	clients    map[uuid.UUID]*models.Client
	properties map[uuid.UUID]*models.Property
	deals      map[uuid.UUID]*models.Deal
}

func NewFakeStore() *FakeStore {
	return &FakeStore{
		users:      make(map[uuid.UUID]*models.User),
		clients:    make(map[uuid.UUID]*models.Client),
		properties: make(map[uuid.UUID]*models.Property),
		deals:      make(map[uuid.UUID]*models.Deal),
	}
}

/* ------------------------------------------------------------------
   Seeding helpers
------------------------------------------------------------------ */

func (s *FakeStore) AddUser(u models.User) *models.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[u.ID] = &u
	return &u
}

func (s *FakeStore) AddClient(c models.Client) *models.Client {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clients[c.ID] = &c
	return &c
}

func (s *FakeStore) AddProperty(p models.Property) *models.Property {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.properties[p.ID] = &p
	return &p
}

func (s *FakeStore) AddDeal(d models.Deal) *models.Deal {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deals[d.ID] = &d
	s.recompute(d.PropertyID)
	return &d
}

// PropertyState reads a property directly, bypassing access checks -
// tests use it to assert on is_available.
func (s *FakeStore) PropertyState(id uuid.UUID) *models.Property {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p, ok := s.properties[id]; ok {
		cp := *p
		return &cp
	}
	return nil
}

// DealState reads a deal directly, bypassing access checks.
func (s *FakeStore) DealState(id uuid.UUID) *models.Deal {
	s.mu.Lock()
	defer s.mu.Unlock()
	if d, ok := s.deals[id]; ok {
		cp := *d
		return &cp
	}
	return nil
}

func (s *FakeStore) DealCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.deals)
}

/* ------------------------------------------------------------------
   Repository views
------------------------------------------------------------------ */

func (s *FakeStore) UserRepository() repositories.UserRepository         { return &fakeUserRepo{s} }
func (s *FakeStore) ClientRepository() repositories.ClientRepository     { return &fakeClientRepo{s} }
func (s *FakeStore) PropertyRepository() repositories.PropertyRepository { return &fakePropertyRepo{s} }
func (s *FakeStore) DealRepository() repositories.DealRepository         { return &fakeDealRepo{s} }

// anyCompleted mirrors the SQL predicate behind is_available.
func (s *FakeStore) anyCompleted(propertyID, excludeDealID uuid.UUID) bool {
	for _, d := range s.deals {
		if d.PropertyID == propertyID && d.Status == models.DealStatusCompleted && d.ID != excludeDealID {
			return true
		}
	}
	return false
}

func (s *FakeStore) recompute(propertyID uuid.UUID) {
	if p, ok := s.properties[propertyID]; ok {
		p.IsAvailable = !s.anyCompleted(propertyID, uuid.Nil)
	}
}

/* ------------------------------------------------------------------
   Users
------------------------------------------------------------------ */

type fakeUserRepo struct{ s *FakeStore }

func (r *fakeUserRepo) Create(ctx context.Context, u *models.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cp := *u
	r.s.users[u.ID] = &cp
	return nil
}

func (r *fakeUserRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if u, ok := r.s.users[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, nil
}

func (r *fakeUserRepo) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if u.Username == username {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) ListAgents(ctx context.Context) ([]*models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*models.User
	for _, u := range r.s.users {
		if u.Role == models.RoleAgent {
			cp := *u
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID.String() < out[j].ID.String() })
	return out, nil
}

/* ------------------------------------------------------------------
   Properties
------------------------------------------------------------------ */

type fakePropertyRepo struct{ s *FakeStore }

func (r *fakePropertyRepo) Create(ctx context.Context, p *models.Property) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cp := *p
	r.s.properties[p.ID] = &cp
	return nil
}

func (r *fakePropertyRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Property, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if p, ok := r.s.properties[id]; ok {
		cp := *p
		return &cp, nil
	}
	return nil, nil
}

func (r *fakePropertyRepo) ListAll(ctx context.Context) ([]*models.Property, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.listLocked(func(*models.Property) bool { return true }), nil
}

func (r *fakePropertyRepo) ListVisibleTo(ctx context.Context, userID uuid.UUID) ([]*models.Property, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.listLocked(func(p *models.Property) bool {
		return p.IsAvailable || (p.CreatedByUserID != nil && *p.CreatedByUserID == userID)
	}), nil
}

func (r *fakePropertyRepo) listLocked(keep func(*models.Property) bool) []*models.Property {
	var out []*models.Property
	for _, p := range r.s.properties {
		if keep(p) {
			cp := *p
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID.String() < out[j].ID.String() })
	return out
}

func (r *fakePropertyRepo) UpdateIfVersion(ctx context.Context, p *models.Property, expected int64) (pgconn.CommandTag, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cur, ok := r.s.properties[p.ID]
	if !ok || cur.RowVersion != expected {
		return pgconn.CommandTag("UPDATE 0"), nil
	}
	cp := *p
	cp.IsAvailable = cur.IsAvailable // flag stays with the deal write path
	cp.RowVersion = expected + 1
	r.s.properties[p.ID] = &cp
	return pgconn.CommandTag("UPDATE 1"), nil
}

func (r *fakePropertyRepo) UpdateWithRetry(ctx context.Context, id uuid.UUID, mutate func(*models.Property) error) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cur, ok := r.s.properties[id]
	if !ok {
		return pgx.ErrNoRows
	}
	cp := *cur
	if err := mutate(&cp); err != nil {
		return err
	}
	cp.RowVersion = cur.RowVersion + 1
	r.s.properties[id] = &cp
	return nil
}

func (r *fakePropertyRepo) Delete(ctx context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.properties[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(r.s.properties, id)
	return nil
}

/* ------------------------------------------------------------------
   Clients
------------------------------------------------------------------ */

type fakeClientRepo struct{ s *FakeStore }

func (r *fakeClientRepo) Create(ctx context.Context, c *models.Client) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cp := *c
	r.s.clients[c.ID] = &cp
	return nil
}

func (r *fakeClientRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Client, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if c, ok := r.s.clients[id]; ok {
		cp := *c
		return &cp, nil
	}
	return nil, nil
}

func (r *fakeClientRepo) ListAll(ctx context.Context) ([]*models.Client, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.listLocked(func(*models.Client) bool { return true }), nil
}

func (r *fakeClientRepo) ListByAgentID(ctx context.Context, agentID uuid.UUID) ([]*models.Client, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.listLocked(func(c *models.Client) bool {
		return c.AgentID != nil && *c.AgentID == agentID
	}), nil
}

func (r *fakeClientRepo) listLocked(keep func(*models.Client) bool) []*models.Client {
	var out []*models.Client
	for _, c := range r.s.clients {
		if keep(c) {
			cp := *c
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID.String() < out[j].ID.String() })
	return out
}

func (r *fakeClientRepo) UpdateIfVersion(ctx context.Context, c *models.Client, expected int64) (pgconn.CommandTag, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cur, ok := r.s.clients[c.ID]
	if !ok || cur.RowVersion != expected {
		return pgconn.CommandTag("UPDATE 0"), nil
	}
	cp := *c
	cp.RowVersion = expected + 1
	r.s.clients[c.ID] = &cp
	return pgconn.CommandTag("UPDATE 1"), nil
}

func (r *fakeClientRepo) UpdateWithRetry(ctx context.Context, id uuid.UUID, mutate func(*models.Client) error) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cur, ok := r.s.clients[id]
	if !ok {
		return pgx.ErrNoRows
	}
	cp := *cur
	if err := mutate(&cp); err != nil {
		return err
	}
	cp.RowVersion = cur.RowVersion + 1
	r.s.clients[id] = &cp
	return nil
}

func (r *fakeClientRepo) Delete(ctx context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.clients[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(r.s.clients, id)
	return nil
}

/* ------------------------------------------------------------------
   Deals
------------------------------------------------------------------ */

type fakeDealRepo struct{ s *FakeStore }

func (r *fakeDealRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Deal, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if d, ok := r.s.deals[id]; ok {
		cp := *d
		return &cp, nil
	}
	return nil, nil
}

func (r *fakeDealRepo) ListAll(ctx context.Context) ([]*models.Deal, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.listLocked(func(*models.Deal) bool { return true }), nil
}

func (r *fakeDealRepo) ListByAgentID(ctx context.Context, agentID uuid.UUID) ([]*models.Deal, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.listLocked(func(d *models.Deal) bool { return d.AgentID == agentID }), nil
}

func (r *fakeDealRepo) listLocked(keep func(*models.Deal) bool) []*models.Deal {
	var out []*models.Deal
	for _, d := range r.s.deals {
		if keep(d) {
			cp := *d
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID.String() < out[j].ID.String() })
	return out
}

func (r *fakeDealRepo) AnyCompletedForProperty(ctx context.Context, propertyID uuid.UUID) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.anyCompleted(propertyID, uuid.Nil), nil
}

func (r *fakeDealRepo) CountByClientID(ctx context.Context, clientID uuid.UUID) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	n := 0
	for _, d := range r.s.deals {
		if d.ClientID == clientID {
			n++
		}
	}
	return n, nil
}

func (r *fakeDealRepo) CountByPropertyID(ctx context.Context, propertyID uuid.UUID) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	n := 0
	for _, d := range r.s.deals {
		if d.PropertyID == propertyID {
			n++
		}
	}
	return n, nil
}

func (r *fakeDealRepo) CreateAtomic(ctx context.Context, d *models.Deal) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.properties[d.PropertyID]; !ok {
		return pgx.ErrNoRows
	}
	if d.Status == models.DealStatusCompleted && r.s.anyCompleted(d.PropertyID, uuid.Nil) {
		return utils.ErrPropertyUnavailable
	}
	cp := *d
	r.s.deals[d.ID] = &cp
	r.s.recompute(d.PropertyID)
	return nil
}

func (r *fakeDealRepo) UpdateAtomic(ctx context.Context, d *models.Deal, oldPropertyID uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.properties[oldPropertyID]; !ok {
		return pgx.ErrNoRows
	}
	if _, ok := r.s.properties[d.PropertyID]; !ok {
		return pgx.ErrNoRows
	}
	if d.Status == models.DealStatusCompleted && r.s.anyCompleted(d.PropertyID, d.ID) {
		return utils.ErrPropertyUnavailable
	}
	cur, ok := r.s.deals[d.ID]
	if !ok {
		return utils.ErrNoRowsUpdated
	}
	cp := *d
	cp.RowVersion = cur.RowVersion + 1
	r.s.deals[d.ID] = &cp
	r.s.recompute(oldPropertyID)
	if d.PropertyID != oldPropertyID {
		r.s.recompute(d.PropertyID)
	}
	return nil
}

func (r *fakeDealRepo) DeleteAtomic(ctx context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	d, ok := r.s.deals[id]
	if !ok {
		return pgx.ErrNoRows
	}
	delete(r.s.deals, id)
	r.s.recompute(d.PropertyID)
	return nil
}
