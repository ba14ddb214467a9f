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

type ClientService struct {
	policy  *AccessPolicy
	clients repositories.ClientRepository
	deals   repositories.DealRepository
	users   repositories.UserRepository
}

func NewClientService(
	policy *AccessPolicy,
	clients repositories.ClientRepository,
	deals repositories.DealRepository,
	users repositories.UserRepository,
) *ClientService {
	return &ClientService{policy: policy, clients: clients, deals: deals, users: users}
}

func (s *ClientService) Create(ctx context.Context, actor Actor, req dtos.CreateClientRequest) (*dtos.ClientDTO, error) {
	agentID, err := s.resolveAgent(ctx, actor, req.AgentID)
	if err != nil {
		return nil, err
	}

	client := &models.Client{
		ID:           uuid.New(),
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Phone:        req.Phone,
		Email:        req.Email,
		Requirements: req.Requirements,
		Budget:       req.Budget,
		AgentID:      &agentID,
		CreatedAt:    time.Now().UTC(),
	}
	client.RowVersion = 1

	if err := s.clients.Create(ctx, client); err != nil {
		return nil, err
	}
	return dtos.NewClientDTO(client), nil
}

func (s *ClientService) Get(ctx context.Context, actor Actor, id uuid.UUID) (*dtos.ClientDTO, error) {
	client, err := s.clients.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if client == nil {
		return nil, utils.NewNotFound(utils.EntityClient, id)
	}
	if !s.policy.CanReadClient(actor, client) {
		return nil, utils.NewForbidden("client belongs to another agent")
	}
	return dtos.NewClientDTO(client), nil
}

func (s *ClientService) List(ctx context.Context, actor Actor) (*dtos.ListClientsResponse, error) {
	var (
		clients []*models.Client
		err     error
	)
	if actor.IsAdmin() {
		clients, err = s.clients.ListAll(ctx)
	} else {
		clients, err = s.clients.ListByAgentID(ctx, actor.ID)
	}
	if err != nil {
		return nil, err
	}

	resp := &dtos.ListClientsResponse{Clients: make([]*dtos.ClientDTO, 0, len(clients))}
	for _, c := range clients {
		resp.Clients = append(resp.Clients, dtos.NewClientDTO(c))
	}
	return resp, nil
}

func (s *ClientService) Update(ctx context.Context, actor Actor, id uuid.UUID, req dtos.UpdateClientRequest) (*dtos.ClientDTO, error) {
	client, err := s.clients.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if client == nil {
		return nil, utils.NewNotFound(utils.EntityClient, id)
	}
	if !s.policy.CanWriteClient(actor, client) {
		return nil, utils.NewForbidden("client belongs to another agent")
	}

	var newAgentID *uuid.UUID
	if req.AgentID != nil {
		agentID, err := s.resolveAgent(ctx, actor, req.AgentID)
		if err != nil {
			return nil, err
		}
		newAgentID = &agentID
	}

	err = s.clients.UpdateWithRetry(ctx, id, func(c *models.Client) error {
		if req.FirstName != nil {
			c.FirstName = *req.FirstName
		}
		if req.LastName != nil {
			c.LastName = *req.LastName
		}
		if req.Phone != nil {
			c.Phone = *req.Phone
		}
		if req.Email != nil {
			c.Email = *req.Email
		}
		if req.Requirements != nil {
			c.Requirements = *req.Requirements
		}
		if req.Budget != nil {
			c.Budget = req.Budget
		}
		if newAgentID != nil {
			c.AgentID = newAgentID
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, utils.NewNotFound(utils.EntityClient, id)
		}
		return nil, err
	}

	updated, err := s.clients.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return dtos.NewClientDTO(updated), nil
}

// Delete refuses while any deal still references the client.
func (s *ClientService) Delete(ctx context.Context, actor Actor, id uuid.UUID) error {
	client, err := s.clients.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if client == nil {
		return utils.NewNotFound(utils.EntityClient, id)
	}
	if !s.policy.CanWriteClient(actor, client) {
		return utils.NewForbidden("client belongs to another agent")
	}

	n, err := s.deals.CountByClientID(ctx, id)
	if err != nil {
		return err
	}
	if n > 0 {
		return utils.NewBusiness(utils.BusinessCodeClientHasDeals)
	}

	if err := s.clients.Delete(ctx, id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return utils.NewNotFound(utils.EntityClient, id)
		}
		return err
	}
	return nil
}

func (s *ClientService) resolveAgent(ctx context.Context, actor Actor, requested *uuid.UUID) (uuid.UUID, error) {
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
