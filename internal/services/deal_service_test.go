package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/Al-Min-Alina/AgenciesSolution-sub000/internal/dtos"
	"github.com/Al-Min-Alina/AgenciesSolution-sub000/internal/models"
	"github.com/Al-Min-Alina/AgenciesSolution-sub000/internal/utils"
)

func TestDealCreate_AvailabilityFlip(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	prop := f.addProperty()
	client := f.addClient(f.agentA.ID)

	dto, err := f.deals.Create(ctx, f.agentA, dtos.CreateDealRequest{
		PropertyID: prop.ID,
		ClientID:   client.ID,
		DealAmount: 18_500_000,
		DealDate:   yesterday(),
		Status:     "Completed",
	})
	require.NoError(t, err)
	require.Equal(t, string(models.DealStatusCompleted), dto.Status)
	require.Equal(t, f.agentA.ID, dto.AgentID, "unset agent defaults to the caller")
	require.Equal(t, int64(1), dto.RowVersion)

	require.False(t, f.store.PropertyState(prop.ID).IsAvailable,
		"completed deal must mark the property unavailable")
}

func TestDealCreate_PendingKeepsPropertyAvailable(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	prop := f.addProperty()
	client := f.addClient(f.agentA.ID)

	_, err := f.deals.Create(ctx, f.agentA, dtos.CreateDealRequest{
		PropertyID: prop.ID,
		ClientID:   client.ID,
		DealAmount: 1000,
		DealDate:   yesterday(),
		Status:     "PENDING",
	})
	require.NoError(t, err)
	require.True(t, f.store.PropertyState(prop.ID).IsAvailable)
}

func TestDealCreate_SecondCompletedRejected(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	prop := f.addProperty()
	client := f.addClient(f.agentA.ID)
	f.addDeal(prop.ID, client.ID, f.agentA.ID, models.DealStatusCompleted)

	before := f.store.DealCount()

	_, err := f.deals.Create(ctx, f.agentA, dtos.CreateDealRequest{
		PropertyID: prop.ID,
		ClientID:   client.ID,
		DealAmount: 1000,
		DealDate:   yesterday(),
		Status:     "COMPLETED",
	})
	var be *utils.BusinessError
	require.ErrorAs(t, err, &be)
	require.Equal(t, utils.BusinessCodePropertyUnavailable, be.Code)

	require.Equal(t, before, f.store.DealCount(), "rejected deal must not be persisted")
	require.False(t, f.store.PropertyState(prop.ID).IsAvailable)
}

func TestDealCreate_ValidationOrder(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	prop := f.addProperty()
	client := f.addClient(f.agentA.ID)

	t.Run("missing property reported before missing client", func(t *testing.T) {
		_, err := f.deals.Create(ctx, f.agentA, dtos.CreateDealRequest{
			PropertyID: uuid.New(),
			ClientID:   uuid.New(),
			DealAmount: -5,
			DealDate:   yesterday(),
			Status:     "PENDING",
		})
		var nf *utils.NotFoundError
		require.ErrorAs(t, err, &nf)
		require.Equal(t, utils.EntityProperty, nf.Entity)
	})

	t.Run("missing client reported before bad amount", func(t *testing.T) {
		_, err := f.deals.Create(ctx, f.agentA, dtos.CreateDealRequest{
			PropertyID: prop.ID,
			ClientID:   uuid.New(),
			DealAmount: -5,
			DealDate:   yesterday(),
			Status:     "PENDING",
		})
		var nf *utils.NotFoundError
		require.ErrorAs(t, err, &nf)
		require.Equal(t, utils.EntityClient, nf.Entity)
	})

	t.Run("bad amount reported before bad date", func(t *testing.T) {
		_, err := f.deals.Create(ctx, f.agentA, dtos.CreateDealRequest{
			PropertyID: prop.ID,
			ClientID:   client.ID,
			DealAmount: 0,
			DealDate:   time.Now().AddDate(1, 0, 0),
			Status:     "PENDING",
		})
		var ve *utils.ValidationError
		require.ErrorAs(t, err, &ve)
		require.Equal(t, "deal_amount", ve.Field)
	})
}

func TestDealCreate_FieldValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	prop := f.addProperty()
	client := f.addClient(f.agentA.ID)

	base := dtos.CreateDealRequest{
		PropertyID: prop.ID,
		ClientID:   client.ID,
		DealAmount: 1000,
		DealDate:   yesterday(),
		Status:     "PENDING",
	}

	cases := []struct {
		name   string
		mutate func(*dtos.CreateDealRequest)
		field  string
	}{
		{"zero amount", func(r *dtos.CreateDealRequest) { r.DealAmount = 0 }, "deal_amount"},
		{"negative amount", func(r *dtos.CreateDealRequest) { r.DealAmount = -1 }, "deal_amount"},
		{"amount above cap", func(r *dtos.CreateDealRequest) { r.DealAmount = 1_000_000_001 }, "deal_amount"},
		{"future date", func(r *dtos.CreateDealRequest) { r.DealDate = time.Now().AddDate(0, 0, 2) }, "deal_date"},
		{"date older than ten years", func(r *dtos.CreateDealRequest) { r.DealDate = time.Now().AddDate(-11, 0, 0) }, "deal_date"},
		{"unknown status", func(r *dtos.CreateDealRequest) { r.Status = "ARCHIVED" }, "status"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := base
			tc.mutate(&req)
			_, err := f.deals.Create(ctx, f.agentA, req)
			var ve *utils.ValidationError
			require.ErrorAs(t, err, &ve)
			require.Equal(t, tc.field, ve.Field)
		})
	}
	require.Equal(t, 0, f.store.DealCount())
}

func TestDealCreate_AgentResolution(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	prop := f.addProperty()
	client := f.addClient(f.agentA.ID)

	base := dtos.CreateDealRequest{
		PropertyID: prop.ID,
		ClientID:   client.ID,
		DealAmount: 1000,
		DealDate:   yesterday(),
		Status:     "PENDING",
	}

	t.Run("agent naming another agent is forbidden", func(t *testing.T) {
		req := base
		req.AgentID = &f.agentB.ID
		_, err := f.deals.Create(ctx, f.agentA, req)
		var fb *utils.ForbiddenError
		require.ErrorAs(t, err, &fb)
	})

	t.Run("agent naming themselves is fine", func(t *testing.T) {
		req := base
		req.AgentID = &f.agentA.ID
		dto, err := f.deals.Create(ctx, f.agentA, req)
		require.NoError(t, err)
		require.Equal(t, f.agentA.ID, dto.AgentID)
	})

	t.Run("admin may assign any existing agent", func(t *testing.T) {
		req := base
		req.AgentID = &f.agentB.ID
		dto, err := f.deals.Create(ctx, f.admin, req)
		require.NoError(t, err)
		require.Equal(t, f.agentB.ID, dto.AgentID)
	})

	t.Run("admin naming an unknown agent gets not found", func(t *testing.T) {
		ghost := uuid.New()
		req := base
		req.AgentID = &ghost
		_, err := f.deals.Create(ctx, f.admin, req)
		var nf *utils.NotFoundError
		require.ErrorAs(t, err, &nf)
		require.Equal(t, utils.EntityAgent, nf.Entity)
	})
}

func TestDealUpdate_CompletedToCancelledReleasesProperty(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	prop := f.addProperty()
	client := f.addClient(f.agentA.ID)
	deal := f.addDeal(prop.ID, client.ID, f.agentA.ID, models.DealStatusCompleted)
	require.False(t, f.store.PropertyState(prop.ID).IsAvailable)

	cancelled := "CANCELLED"
	dto, err := f.deals.Update(ctx, f.agentA, deal.ID, dtos.UpdateDealRequest{Status: &cancelled})
	require.NoError(t, err)
	require.Equal(t, string(models.DealStatusCancelled), dto.Status)

	require.True(t, f.store.PropertyState(prop.ID).IsAvailable,
		"cancelling the holding deal must release the property")
}

func TestDealUpdate_SameStatusIsIdempotent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	prop := f.addProperty()
	client := f.addClient(f.agentA.ID)
	deal := f.addDeal(prop.ID, client.ID, f.agentA.ID, models.DealStatusCompleted)

	completed := "COMPLETED"
	_, err := f.deals.Update(ctx, f.agentA, deal.ID, dtos.UpdateDealRequest{Status: &completed})
	require.NoError(t, err, "a deal never conflicts with itself")
	require.False(t, f.store.PropertyState(prop.ID).IsAvailable)
}

func TestDealUpdate_ReassignProperty(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	propA := f.addProperty()
	propB := f.addProperty()
	client := f.addClient(f.agentA.ID)
	deal := f.addDeal(propA.ID, client.ID, f.agentA.ID, models.DealStatusCompleted)

	dto, err := f.deals.Update(ctx, f.agentA, deal.ID, dtos.UpdateDealRequest{PropertyID: &propB.ID})
	require.NoError(t, err)
	require.Equal(t, propB.ID, dto.PropertyID)

	require.True(t, f.store.PropertyState(propA.ID).IsAvailable, "old property released")
	require.False(t, f.store.PropertyState(propB.ID).IsAvailable, "new property held")
}

func TestDealUpdate_ReassignOntoHeldPropertyRejected(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	propA := f.addProperty()
	propB := f.addProperty()
	client := f.addClient(f.agentA.ID)
	f.addDeal(propB.ID, client.ID, f.agentA.ID, models.DealStatusCompleted)
	deal := f.addDeal(propA.ID, client.ID, f.agentA.ID, models.DealStatusCompleted)

	_, err := f.deals.Update(ctx, f.agentA, deal.ID, dtos.UpdateDealRequest{PropertyID: &propB.ID})
	var be *utils.BusinessError
	require.ErrorAs(t, err, &be)
	require.Equal(t, utils.BusinessCodePropertyUnavailable, be.Code)

	require.Equal(t, propA.ID, f.store.DealState(deal.ID).PropertyID, "deal left untouched")
	require.False(t, f.store.PropertyState(propA.ID).IsAvailable)
}

func TestDealUpdate_Ownership(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	prop := f.addProperty()
	client := f.addClient(f.agentA.ID)
	deal := f.addDeal(prop.ID, client.ID, f.agentA.ID, models.DealStatusPending)

	amount := 500.0

	t.Run("other agent is forbidden", func(t *testing.T) {
		_, err := f.deals.Update(ctx, f.agentB, deal.ID, dtos.UpdateDealRequest{DealAmount: &amount})
		var fb *utils.ForbiddenError
		require.ErrorAs(t, err, &fb)
	})

	t.Run("admin may update any deal", func(t *testing.T) {
		dto, err := f.deals.Update(ctx, f.admin, deal.ID, dtos.UpdateDealRequest{DealAmount: &amount})
		require.NoError(t, err)
		require.Equal(t, amount, dto.DealAmount)
	})

	t.Run("unknown deal is not found", func(t *testing.T) {
		_, err := f.deals.Update(ctx, f.admin, uuid.New(), dtos.UpdateDealRequest{DealAmount: &amount})
		var nf *utils.NotFoundError
		require.ErrorAs(t, err, &nf)
		require.Equal(t, utils.EntityDeal, nf.Entity)
	})
}

func TestDealDelete(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	prop := f.addProperty()
	client := f.addClient(f.agentA.ID)

	t.Run("admin only", func(t *testing.T) {
		deal := f.addDeal(prop.ID, client.ID, f.agentA.ID, models.DealStatusPending)
		err := f.deals.Delete(ctx, f.agentA, deal.ID)
		var fb *utils.ForbiddenError
		require.ErrorAs(t, err, &fb)
		require.NotNil(t, f.store.DealState(deal.ID))

		require.NoError(t, f.deals.Delete(ctx, f.admin, deal.ID))
		require.Nil(t, f.store.DealState(deal.ID))
	})

	t.Run("deleting the completed deal releases the property", func(t *testing.T) {
		deal := f.addDeal(prop.ID, client.ID, f.agentA.ID, models.DealStatusCompleted)
		require.False(t, f.store.PropertyState(prop.ID).IsAvailable)

		require.NoError(t, f.deals.Delete(ctx, f.admin, deal.ID))
		require.True(t, f.store.PropertyState(prop.ID).IsAvailable)
	})

	t.Run("deleting a cancelled deal leaves availability alone", func(t *testing.T) {
		holding := f.addDeal(prop.ID, client.ID, f.agentA.ID, models.DealStatusCompleted)
		cancelled := f.addDeal(prop.ID, client.ID, f.agentA.ID, models.DealStatusCancelled)

		require.NoError(t, f.deals.Delete(ctx, f.admin, cancelled.ID))
		require.False(t, f.store.PropertyState(prop.ID).IsAvailable)

		require.NoError(t, f.deals.Delete(ctx, f.admin, holding.ID))
	})

	t.Run("unknown deal is not found", func(t *testing.T) {
		err := f.deals.Delete(ctx, f.admin, uuid.New())
		var nf *utils.NotFoundError
		require.ErrorAs(t, err, &nf)
	})
}

func TestDealGetAndList_Scoping(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	prop := f.addProperty()
	clientA := f.addClient(f.agentA.ID)
	clientB := f.addClient(f.agentB.ID)
	dealA := f.addDeal(prop.ID, clientA.ID, f.agentA.ID, models.DealStatusPending)
	dealB := f.addDeal(prop.ID, clientB.ID, f.agentB.ID, models.DealStatusPending)

	t.Run("get honors ownership", func(t *testing.T) {
		_, err := f.deals.Get(ctx, f.agentA, dealA.ID)
		require.NoError(t, err)

		_, err = f.deals.Get(ctx, f.agentA, dealB.ID)
		var fb *utils.ForbiddenError
		require.ErrorAs(t, err, &fb)

		_, err = f.deals.Get(ctx, f.admin, dealB.ID)
		require.NoError(t, err)
	})

	t.Run("list scopes agents to their own deals", func(t *testing.T) {
		resp, err := f.deals.List(ctx, f.agentA)
		require.NoError(t, err)
		require.Len(t, resp.Deals, 1)
		require.Equal(t, dealA.ID, resp.Deals[0].ID)

		resp, err = f.deals.List(ctx, f.admin)
		require.NoError(t, err)
		require.Len(t, resp.Deals, 2)
	})
}
