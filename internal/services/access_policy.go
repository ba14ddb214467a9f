package services

import (
	"github.com/google/uuid"

	"github.com/Al-Min-Alina/AgenciesSolution-sub000/internal/models"
	"github.com/Al-Min-Alina/AgenciesSolution-sub000/internal/utils"
)

// Actor is the authenticated caller, taken from the JWT claims by the
// auth middleware.
type Actor struct {
	ID   uuid.UUID
	Role models.Role
}

func (a Actor) IsAdmin() bool {
	return a.Role == models.RoleAdmin
}

/*
AccessPolicy decides, from (role, actor id, owner id) alone, whether an
operation is permitted. It is pure and transport-agnostic: reference
lookups stay with the caller, authorization failures come back as
ForbiddenError so controllers can keep 403 distinct from 404 and 400.

Rules:

  - Admin may do everything.
  - Clients and deals are readable/writable only by their owning agent.
  - Properties are readable by anyone while available, and by their
    creator always; property mutation is admin-only.
  - Assigning a client or deal to a different agent is admin-only.
*/
type AccessPolicy struct{}

func NewAccessPolicy() *AccessPolicy {
	return &AccessPolicy{}
}

func (p *AccessPolicy) CanReadClient(actor Actor, c *models.Client) bool {
	if actor.IsAdmin() {
		return true
	}
	return c.AgentID != nil && *c.AgentID == actor.ID
}

func (p *AccessPolicy) CanWriteClient(actor Actor, c *models.Client) bool {
	return p.CanReadClient(actor, c)
}

func (p *AccessPolicy) CanReadDeal(actor Actor, d *models.Deal) bool {
	if actor.IsAdmin() {
		return true
	}
	return d.AgentID == actor.ID
}

func (p *AccessPolicy) CanWriteDeal(actor Actor, d *models.Deal) bool {
	return p.CanReadDeal(actor, d)
}

func (p *AccessPolicy) CanReadProperty(actor Actor, prop *models.Property) bool {
	if actor.IsAdmin() {
		return true
	}
	if prop.IsAvailable {
		return true
	}
	return prop.CreatedByUserID != nil && *prop.CreatedByUserID == actor.ID
}

func (p *AccessPolicy) CanMutateProperty(actor Actor) bool {
	return actor.IsAdmin()
}

func (p *AccessPolicy) CanReassignAgent(actor Actor) bool {
	return actor.IsAdmin()
}

/*
ResolveDefaultAgent picks the effective owning agent for a client/deal
write. Unset means "the caller"; a non-admin naming anyone but
themselves is rejected rather than silently overridden. For an admin
the requested id is returned as-is - the caller still has to resolve it
against the user store (AgentNotFound is a lookup failure, not a policy
one).
*/
func (p *AccessPolicy) ResolveDefaultAgent(actor Actor, requested *uuid.UUID) (uuid.UUID, error) {
	if requested == nil || *requested == uuid.Nil {
		return actor.ID, nil
	}
	if !actor.IsAdmin() && *requested != actor.ID {
		return uuid.Nil, utils.NewForbidden("cannot assign another agent")
	}
	return *requested, nil
}
