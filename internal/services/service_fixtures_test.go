package services

import (
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/Al-Min-Alina/AgenciesSolution-sub000/internal/models"
	"github.com/Al-Min-Alina/AgenciesSolution-sub000/internal/testhelpers"
)

// fixture wires the three services over one in-memory store so tests
// can observe cross-entity effects (a deal write flipping a property
// flag) end to end.
type fixture struct {
	store *testhelpers.FakeStore

	deals      *DealService
	clients    *ClientService
	properties *PropertyService

	admin  Actor
	agentA Actor
	agentB Actor
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	store := testhelpers.NewFakeStore()
	policy := NewAccessPolicy()
	cache := NewPropertyCache(time.Minute)
	t.Cleanup(cache.Stop)

	dealRepo := store.DealRepository()
	propRepo := store.PropertyRepository()
	clientRepo := store.ClientRepository()
	userRepo := store.UserRepository()

	f := &fixture{
		store:      store,
		deals:      NewDealService(policy, dealRepo, propRepo, clientRepo, userRepo, cache),
		clients:    NewClientService(policy, clientRepo, dealRepo, userRepo),
		properties: NewPropertyService(policy, propRepo, dealRepo, cache),
	}

	admin := store.AddUser(models.User{ID: uuid.New(), Username: "admin", Role: models.RoleAdmin})
	agentA := store.AddUser(models.User{ID: uuid.New(), Username: "agent-a", Role: models.RoleAgent})
	agentB := store.AddUser(models.User{ID: uuid.New(), Username: "agent-b", Role: models.RoleAgent})

	f.admin = Actor{ID: admin.ID, Role: models.RoleAdmin}
	f.agentA = Actor{ID: agentA.ID, Role: models.RoleAgent}
	f.agentB = Actor{ID: agentB.ID, Role: models.RoleAgent}
	return f
}

func (f *fixture) addProperty() *models.Property {
	p := models.Property{
		ID:          uuid.New(),
		Address:     "Abai Ave 10",
		Price:       25_000_000,
		Area:        54.5,
		Type:        models.PropertyTypeApartment,
		Rooms:       2,
		IsAvailable: true,
		CreatedAt:   time.Now().UTC(),
	}
	p.RowVersion = 1
	return f.store.AddProperty(p)
}

func (f *fixture) addClient(agentID uuid.UUID) *models.Client {
	c := models.Client{
		ID:        uuid.New(),
		FirstName: "Aigerim",
		LastName:  "S.",
		Phone:     "+77010000000",
		Email:     "aigerim@example.com",
		AgentID:   &agentID,
		CreatedAt: time.Now().UTC(),
	}
	c.RowVersion = 1
	return f.store.AddClient(c)
}

func (f *fixture) addDeal(propertyID, clientID, agentID uuid.UUID, status models.DealStatus) *models.Deal {
	d := models.Deal{
		ID:         uuid.New(),
		PropertyID: propertyID,
		ClientID:   clientID,
		AgentID:    agentID,
		DealAmount: 20_000_000,
		DealDate:   time.Now().AddDate(0, 0, -3),
		Status:     status,
		CreatedAt:  time.Now().UTC(),
	}
	d.RowVersion = 1
	return f.store.AddDeal(d)
}

func yesterday() time.Time {
	return time.Now().AddDate(0, 0, -1)
}
