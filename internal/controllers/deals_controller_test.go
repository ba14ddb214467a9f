package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/require"

	"github.com/Al-Min-Alina/AgenciesSolution-sub000/internal/dtos"
	"github.com/Al-Min-Alina/AgenciesSolution-sub000/internal/middleware"
	"github.com/Al-Min-Alina/AgenciesSolution-sub000/internal/models"
	"github.com/Al-Min-Alina/AgenciesSolution-sub000/internal/services"
	"github.com/Al-Min-Alina/AgenciesSolution-sub000/internal/testhelpers"
	"github.com/Al-Min-Alina/AgenciesSolution-sub000/internal/utils"
)

type dealsTestEnv struct {
	store  *testhelpers.FakeStore
	router *mux.Router

	admin  services.Actor
	agentA services.Actor
	agentB services.Actor
}

func newDealsTestEnv(t *testing.T) *dealsTestEnv {
	t.Helper()

	store := testhelpers.NewFakeStore()
	policy := services.NewAccessPolicy()
	cache := services.NewPropertyCache(time.Minute)
	t.Cleanup(cache.Stop)

	svc := services.NewDealService(
		policy,
		store.DealRepository(),
		store.PropertyRepository(),
		store.ClientRepository(),
		store.UserRepository(),
		cache,
	)
	ctrl := NewDealsController(svc)

	router := mux.NewRouter()
	router.HandleFunc("/deals", ctrl.CreateDealHandler).Methods(http.MethodPost)
	router.HandleFunc("/deals", ctrl.ListDealsHandler).Methods(http.MethodGet)
	router.HandleFunc("/deals/{id}", ctrl.GetDealHandler).Methods(http.MethodGet)
	router.HandleFunc("/deals/{id}", ctrl.UpdateDealHandler).Methods(http.MethodPatch)
	router.HandleFunc("/deals/{id}", ctrl.DeleteDealHandler).Methods(http.MethodDelete)

	admin := store.AddUser(models.User{ID: uuid.New(), Username: "admin", Role: models.RoleAdmin})
	agentA := store.AddUser(models.User{ID: uuid.New(), Username: "agent-a", Role: models.RoleAgent})
	agentB := store.AddUser(models.User{ID: uuid.New(), Username: "agent-b", Role: models.RoleAgent})

	return &dealsTestEnv{
		store:  store,
		router: router,
		admin:  services.Actor{ID: admin.ID, Role: models.RoleAdmin},
		agentA: services.Actor{ID: agentA.ID, Role: models.RoleAgent},
		agentB: services.Actor{ID: agentB.ID, Role: models.RoleAgent},
	}
}

// do issues a request with the context values the auth middleware
// would have set for the given actor.
func (e *dealsTestEnv) do(method, target string, actor services.Actor, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, target, &buf)

	ctx := context.WithValue(req.Context(), middleware.ContextKeyUserID, actor.ID)
	ctx = context.WithValue(ctx, middleware.ContextKeyUserRole, actor.Role)
	req = req.WithContext(ctx)

	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func (e *dealsTestEnv) seedPropertyAndClient(agentID uuid.UUID) (*models.Property, *models.Client) {
	p := models.Property{
		ID:          uuid.New(),
		Address:     "Kabanbay Batyr 53",
		Price:       33_000_000,
		Area:        72,
		Type:        models.PropertyTypeApartment,
		Rooms:       3,
		IsAvailable: true,
	}
	p.RowVersion = 1
	prop := e.store.AddProperty(p)

	c := models.Client{
		ID:        uuid.New(),
		FirstName: "Olzhas",
		LastName:  "T.",
		Phone:     "+77070000000",
		Email:     "olzhas@example.com",
		AgentID:   &agentID,
	}
	c.RowVersion = 1
	client := e.store.AddClient(c)
	return prop, client
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) utils.ErrorResponse {
	t.Helper()
	var resp utils.ErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	return resp
}

func TestCreateDealHandler(t *testing.T) {
	e := newDealsTestEnv(t)
	prop, client := e.seedPropertyAndClient(e.agentA.ID)

	t.Run("creates and returns 201", func(t *testing.T) {
		rec := e.do(http.MethodPost, "/deals", e.agentA, dtos.CreateDealRequest{
			PropertyID: prop.ID,
			ClientID:   client.ID,
			DealAmount: 32_000_000,
			DealDate:   time.Now().AddDate(0, 0, -1),
			Status:     "COMPLETED",
		})
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

		var dto dtos.DealDTO
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&dto))
		require.Equal(t, e.agentA.ID, dto.AgentID)
		require.False(t, e.store.PropertyState(prop.ID).IsAvailable)
	})

	t.Run("second completed deal maps to 400 with the conflict code", func(t *testing.T) {
		rec := e.do(http.MethodPost, "/deals", e.agentA, dtos.CreateDealRequest{
			PropertyID: prop.ID,
			ClientID:   client.ID,
			DealAmount: 1000,
			DealDate:   time.Now().AddDate(0, 0, -1),
			Status:     "COMPLETED",
		})
		require.Equal(t, http.StatusBadRequest, rec.Code)
		require.Equal(t, utils.BusinessCodePropertyUnavailable, decodeError(t, rec).Code)
	})

	t.Run("unknown property maps to 404", func(t *testing.T) {
		rec := e.do(http.MethodPost, "/deals", e.agentA, dtos.CreateDealRequest{
			PropertyID: uuid.New(),
			ClientID:   client.ID,
			DealAmount: 1000,
			DealDate:   time.Now().AddDate(0, 0, -1),
			Status:     "PENDING",
		})
		require.Equal(t, http.StatusNotFound, rec.Code)
		require.Equal(t, utils.ErrCodeNotFound, decodeError(t, rec).Code)
	})

	t.Run("future deal date maps to 400 validation", func(t *testing.T) {
		rec := e.do(http.MethodPost, "/deals", e.agentA, dtos.CreateDealRequest{
			PropertyID: prop.ID,
			ClientID:   client.ID,
			DealAmount: 1000,
			DealDate:   time.Now().AddDate(0, 1, 0),
			Status:     "PENDING",
		})
		require.Equal(t, http.StatusBadRequest, rec.Code)
		require.Equal(t, utils.ErrCodeValidation, decodeError(t, rec).Code)
	})

	t.Run("malformed JSON maps to 400 invalid payload", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/deals", bytes.NewBufferString("{not json"))
		ctx := context.WithValue(req.Context(), middleware.ContextKeyUserID, e.agentA.ID)
		ctx = context.WithValue(ctx, middleware.ContextKeyUserRole, e.agentA.Role)
		rec := httptest.NewRecorder()
		e.router.ServeHTTP(rec, req.WithContext(ctx))
		require.Equal(t, http.StatusBadRequest, rec.Code)
		require.Equal(t, utils.ErrCodeInvalidPayload, decodeError(t, rec).Code)
	})

	t.Run("missing actor maps to 401", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/deals", bytes.NewBufferString("{}"))
		rec := httptest.NewRecorder()
		e.router.ServeHTTP(rec, req)
		require.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestDealReadHandlers(t *testing.T) {
	e := newDealsTestEnv(t)
	prop, client := e.seedPropertyAndClient(e.agentA.ID)

	d := models.Deal{
		ID:         uuid.New(),
		PropertyID: prop.ID,
		ClientID:   client.ID,
		AgentID:    e.agentA.ID,
		DealAmount: 1000,
		DealDate:   time.Now().AddDate(0, 0, -2),
		Status:     models.DealStatusPending,
	}
	d.RowVersion = 1
	deal := e.store.AddDeal(d)

	t.Run("owner reads the deal", func(t *testing.T) {
		rec := e.do(http.MethodGet, "/deals/"+deal.ID.String(), e.agentA, nil)
		require.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("foreign agent gets 403", func(t *testing.T) {
		rec := e.do(http.MethodGet, "/deals/"+deal.ID.String(), e.agentB, nil)
		require.Equal(t, http.StatusForbidden, rec.Code)
		require.Equal(t, utils.ErrCodeForbidden, decodeError(t, rec).Code)
	})

	t.Run("unknown id gets 404", func(t *testing.T) {
		rec := e.do(http.MethodGet, "/deals/"+uuid.NewString(), e.admin, nil)
		require.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("malformed id gets 400", func(t *testing.T) {
		rec := e.do(http.MethodGet, "/deals/not-a-uuid", e.admin, nil)
		require.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("list is scoped to the caller", func(t *testing.T) {
		rec := e.do(http.MethodGet, "/deals", e.agentB, nil)
		require.Equal(t, http.StatusOK, rec.Code)

		var resp dtos.ListDealsResponse
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
		require.Empty(t, resp.Deals)
	})
}

func TestDealWriteHandlers(t *testing.T) {
	e := newDealsTestEnv(t)
	prop, client := e.seedPropertyAndClient(e.agentA.ID)

	d := models.Deal{
		ID:         uuid.New(),
		PropertyID: prop.ID,
		ClientID:   client.ID,
		AgentID:    e.agentA.ID,
		DealAmount: 1000,
		DealDate:   time.Now().AddDate(0, 0, -2),
		Status:     models.DealStatusCompleted,
	}
	d.RowVersion = 1
	deal := e.store.AddDeal(d)

	t.Run("patch flips the status and releases the property", func(t *testing.T) {
		cancelled := "CANCELLED"
		rec := e.do(http.MethodPatch, "/deals/"+deal.ID.String(), e.agentA,
			dtos.UpdateDealRequest{Status: &cancelled})
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		var dto dtos.DealDTO
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&dto))
		require.Equal(t, string(models.DealStatusCancelled), dto.Status)
		require.True(t, e.store.PropertyState(prop.ID).IsAvailable)
	})

	t.Run("delete is admin-only", func(t *testing.T) {
		rec := e.do(http.MethodDelete, "/deals/"+deal.ID.String(), e.agentA, nil)
		require.Equal(t, http.StatusForbidden, rec.Code)

		rec = e.do(http.MethodDelete, "/deals/"+deal.ID.String(), e.admin, nil)
		require.Equal(t, http.StatusNoContent, rec.Code)

		rec = e.do(http.MethodDelete, "/deals/"+deal.ID.String(), e.admin, nil)
		require.Equal(t, http.StatusNotFound, rec.Code)
	})
}
