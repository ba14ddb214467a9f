package services

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"

	"github.com/Al-Min-Alina/AgenciesSolution-sub000/internal/dtos"
	"github.com/Al-Min-Alina/AgenciesSolution-sub000/internal/models"
	"github.com/Al-Min-Alina/AgenciesSolution-sub000/internal/repositories"
	"github.com/Al-Min-Alina/AgenciesSolution-sub000/internal/utils"
)

const (
	maxDealAmount   = 1_000_000_000
	maxDealAgeYears = 10
)

/*
DealService is the deal lifecycle guard. Create and Update validate a
request in a fixed order - property, client, agent, amount, date,
status - failing fast on the first violation, then hand the write to
the repository, which applies the deal row and the property
availability flag in one transaction.
*/
type DealService struct {
	policy  *AccessPolicy
	deals   repositories.DealRepository
	props   repositories.PropertyRepository
	clients repositories.ClientRepository
	users   repositories.UserRepository
	cache   *PropertyCache
}

func NewDealService(
	policy *AccessPolicy,
	deals repositories.DealRepository,
	props repositories.PropertyRepository,
	clients repositories.ClientRepository,
	users repositories.UserRepository,
	cache *PropertyCache,
) *DealService {
	return &DealService{
		policy:  policy,
		deals:   deals,
		props:   props,
		clients: clients,
		users:   users,
		cache:   cache,
	}
}

func (s *DealService) Create(ctx context.Context, actor Actor, req dtos.CreateDealRequest) (*dtos.DealDTO, error) {
	prop, err := s.props.GetByID(ctx, req.PropertyID)
	if err != nil {
		return nil, err
	}
	if prop == nil {
		return nil, utils.NewNotFound(utils.EntityProperty, req.PropertyID)
	}

	client, err := s.clients.GetByID(ctx, req.ClientID)
	if err != nil {
		return nil, err
	}
	if client == nil {
		return nil, utils.NewNotFound(utils.EntityClient, req.ClientID)
	}

	agentID, err := s.resolveAgent(ctx, actor, req.AgentID)
	if err != nil {
		return nil, err
	}

	if err := validateDealAmount(req.DealAmount); err != nil {
		return nil, err
	}
	if err := validateDealDate(req.DealDate); err != nil {
		return nil, err
	}
	status, err := models.ParseDealStatus(req.Status)
	if err != nil {
		return nil, utils.NewValidation("status", err.Error())
	}

	deal := &models.Deal{
		ID:         uuid.New(),
		PropertyID: req.PropertyID,
		ClientID:   req.ClientID,
		AgentID:    agentID,
		DealAmount: req.DealAmount,
		DealDate:   req.DealDate,
		Status:     status,
		CreatedAt:  time.Now().UTC(),
	}
	deal.RowVersion = 1

	if err := s.deals.CreateAtomic(ctx, deal); err != nil {
		return nil, s.mapDealWriteError(err, req.PropertyID)
	}
	s.cache.Invalidate(req.PropertyID)

	utils.Logger.Infof("deal %s created (%s) for property %s", deal.ID, deal.Status, deal.PropertyID)
	return dtos.NewDealDTO(deal), nil
}

func (s *DealService) Update(ctx context.Context, actor Actor, id uuid.UUID, req dtos.UpdateDealRequest) (*dtos.DealDTO, error) {
	deal, err := s.deals.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if deal == nil {
		return nil, utils.NewNotFound(utils.EntityDeal, id)
	}
	if !s.policy.CanWriteDeal(actor, deal) {
		return nil, utils.NewForbidden("deal belongs to another agent")
	}

	oldPropertyID := deal.PropertyID
	next := *deal

	if req.PropertyID != nil && *req.PropertyID != deal.PropertyID {
		prop, err := s.props.GetByID(ctx, *req.PropertyID)
		if err != nil {
			return nil, err
		}
		if prop == nil {
			return nil, utils.NewNotFound(utils.EntityProperty, *req.PropertyID)
		}
		next.PropertyID = *req.PropertyID
	}

	if req.ClientID != nil && *req.ClientID != deal.ClientID {
		client, err := s.clients.GetByID(ctx, *req.ClientID)
		if err != nil {
			return nil, err
		}
		if client == nil {
			return nil, utils.NewNotFound(utils.EntityClient, *req.ClientID)
		}
		next.ClientID = *req.ClientID
	}

	if req.AgentID != nil {
		agentID, err := s.resolveAgent(ctx, actor, req.AgentID)
		if err != nil {
			return nil, err
		}
		next.AgentID = agentID
	}

	if req.DealAmount != nil {
		if err := validateDealAmount(*req.DealAmount); err != nil {
			return nil, err
		}
		next.DealAmount = *req.DealAmount
	}
	if req.DealDate != nil {
		if err := validateDealDate(*req.DealDate); err != nil {
			return nil, err
		}
		next.DealDate = *req.DealDate
	}
	if req.Status != nil {
		status, err := models.ParseDealStatus(*req.Status)
		if err != nil {
			return nil, utils.NewValidation("status", err.Error())
		}
		next.Status = status
	}

	if err := s.deals.UpdateAtomic(ctx, &next, oldPropertyID); err != nil {
		return nil, s.mapDealWriteError(err, next.PropertyID)
	}
	next.RowVersion++
	s.cache.Invalidate(oldPropertyID)
	s.cache.Invalidate(next.PropertyID)

	return dtos.NewDealDTO(&next), nil
}

// Delete is admin-only and releases the property if the deal was the
// completed one holding it.
func (s *DealService) Delete(ctx context.Context, actor Actor, id uuid.UUID) error {
	if !actor.IsAdmin() {
		return utils.NewForbidden("deal deletion is admin-only")
	}

	deal, err := s.deals.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if deal == nil {
		return utils.NewNotFound(utils.EntityDeal, id)
	}

	if err := s.deals.DeleteAtomic(ctx, id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return utils.NewNotFound(utils.EntityDeal, id)
		}
		return err
	}
	s.cache.Invalidate(deal.PropertyID)

	utils.Logger.Infof("deal %s deleted, property %s availability recomputed", id, deal.PropertyID)
	return nil
}

func (s *DealService) Get(ctx context.Context, actor Actor, id uuid.UUID) (*dtos.DealDTO, error) {
	deal, err := s.deals.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if deal == nil {
		return nil, utils.NewNotFound(utils.EntityDeal, id)
	}
	if !s.policy.CanReadDeal(actor, deal) {
		return nil, utils.NewForbidden("deal belongs to another agent")
	}
	return dtos.NewDealDTO(deal), nil
}

func (s *DealService) List(ctx context.Context, actor Actor) (*dtos.ListDealsResponse, error) {
	var (
		deals []*models.Deal
		err   error
	)
	if actor.IsAdmin() {
		deals, err = s.deals.ListAll(ctx)
	} else {
		deals, err = s.deals.ListByAgentID(ctx, actor.ID)
	}
	if err != nil {
		return nil, err
	}

	resp := &dtos.ListDealsResponse{Deals: make([]*dtos.DealDTO, 0, len(deals))}
	for _, d := range deals {
		resp.Deals = append(resp.Deals, dtos.NewDealDTO(d))
	}
	return resp, nil
}

/* ------------------------------------------------------------------
   Guard helpers
------------------------------------------------------------------ */

// resolveAgent applies the policy default, then resolves an
// admin-chosen agent against the user store.
func (s *DealService) resolveAgent(ctx context.Context, actor Actor, requested *uuid.UUID) (uuid.UUID, error) {
	agentID, err := s.policy.ResolveDefaultAgent(actor, requested)
	if err != nil {
		return uuid.Nil, err
	}
	if actor.IsAdmin() && agentID != actor.ID {
		agent, err := s.users.GetByID(ctx, agentID)
		if err != nil {
			return uuid.Nil, err
		}
		if agent == nil {
			return uuid.Nil, utils.NewNotFound(utils.EntityAgent, agentID)
		}
	}
	return agentID, nil
}

func (s *DealService) mapDealWriteError(err error, propertyID uuid.UUID) error {
	switch {
	case errors.Is(err, utils.ErrPropertyUnavailable):
		return utils.NewBusiness(utils.BusinessCodePropertyUnavailable)
	case errors.Is(err, pgx.ErrNoRows):
		// property row vanished between the guard check and the lock
		return utils.NewNotFound(utils.EntityProperty, propertyID)
	default:
		return err
	}
}

func validateDealAmount(amount float64) error {
	if amount <= 0 {
		return utils.NewValidation("deal_amount", "deal amount must be positive")
	}
	if amount > maxDealAmount {
		return utils.NewValidation("deal_amount", "deal amount exceeds maximum")
	}
	return nil
}

func validateDealDate(d time.Time) error {
	now := time.Now()
	if d.After(now) {
		return utils.NewValidation("deal_date", "deal date cannot be in the future")
	}
	if d.Before(now.AddDate(-maxDealAgeYears, 0, 0)) {
		return utils.NewValidation("deal_date", "deal date is older than 10 years")
	}
	return nil
}
