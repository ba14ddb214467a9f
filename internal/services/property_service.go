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

// PropertyService: mutations are admin-only; non-admin reads are
// limited to available properties plus the reader's own creations.
type PropertyService struct {
	policy *AccessPolicy
	props  repositories.PropertyRepository
	deals  repositories.DealRepository
	cache  *PropertyCache
}

func NewPropertyService(
	policy *AccessPolicy,
	props repositories.PropertyRepository,
	deals repositories.DealRepository,
	cache *PropertyCache,
) *PropertyService {
	return &PropertyService{policy: policy, props: props, deals: deals, cache: cache}
}

func (s *PropertyService) Create(ctx context.Context, actor Actor, req dtos.CreatePropertyRequest) (*dtos.PropertyDTO, error) {
	if !s.policy.CanMutateProperty(actor) {
		return nil, utils.NewForbidden("property creation is admin-only")
	}

	propType, err := models.ParsePropertyType(req.Type)
	if err != nil {
		return nil, utils.NewValidation("type", err.Error())
	}

	createdBy := actor.ID
	prop := &models.Property{
		ID:              uuid.New(),
		Address:         req.Address,
		Price:           req.Price,
		Area:            req.Area,
		Type:            propType,
		Rooms:           req.Rooms,
		IsAvailable:     true,
		CreatedByUserID: &createdBy,
		CreatedAt:       time.Now().UTC(),
	}
	prop.RowVersion = 1

	if err := s.props.Create(ctx, prop); err != nil {
		return nil, err
	}
	return dtos.NewPropertyDTO(prop), nil
}

func (s *PropertyService) Get(ctx context.Context, actor Actor, id uuid.UUID) (*dtos.PropertyDTO, error) {
	prop, ok := s.cache.Get(id)
	if !ok {
		var err error
		prop, err = s.props.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if prop != nil {
			s.cache.Set(prop)
		}
	}
	if prop == nil {
		return nil, utils.NewNotFound(utils.EntityProperty, id)
	}
	if !s.policy.CanReadProperty(actor, prop) {
		return nil, utils.NewForbidden("property is not visible")
	}
	return dtos.NewPropertyDTO(prop), nil
}

func (s *PropertyService) List(ctx context.Context, actor Actor) (*dtos.ListPropertiesResponse, error) {
	var (
		props []*models.Property
		err   error
	)
	if actor.IsAdmin() {
		props, err = s.props.ListAll(ctx)
	} else {
		props, err = s.props.ListVisibleTo(ctx, actor.ID)
	}
	if err != nil {
		return nil, err
	}

	resp := &dtos.ListPropertiesResponse{Properties: make([]*dtos.PropertyDTO, 0, len(props))}
	for _, p := range props {
		resp.Properties = append(resp.Properties, dtos.NewPropertyDTO(p))
	}
	return resp, nil
}

func (s *PropertyService) Update(ctx context.Context, actor Actor, id uuid.UUID, req dtos.UpdatePropertyRequest) (*dtos.PropertyDTO, error) {
	if !s.policy.CanMutateProperty(actor) {
		return nil, utils.NewForbidden("property update is admin-only")
	}

	var propType *models.PropertyType
	if req.Type != nil {
		t, err := models.ParsePropertyType(*req.Type)
		if err != nil {
			return nil, utils.NewValidation("type", err.Error())
		}
		propType = &t
	}

	err := s.props.UpdateWithRetry(ctx, id, func(p *models.Property) error {
		if req.Address != nil {
			p.Address = *req.Address
		}
		if req.Price != nil {
			p.Price = *req.Price
		}
		if req.Area != nil {
			p.Area = *req.Area
		}
		if propType != nil {
			p.Type = *propType
		}
		if req.Rooms != nil {
			p.Rooms = *req.Rooms
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, utils.NewNotFound(utils.EntityProperty, id)
		}
		return nil, err
	}
	s.cache.Invalidate(id)

	updated, err := s.props.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return dtos.NewPropertyDTO(updated), nil
}

// Delete refuses while any deal still references the property:
// orphaning deals would leave the availability predicate pointing at
// nothing.
func (s *PropertyService) Delete(ctx context.Context, actor Actor, id uuid.UUID) error {
	if !s.policy.CanMutateProperty(actor) {
		return utils.NewForbidden("property deletion is admin-only")
	}

	prop, err := s.props.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if prop == nil {
		return utils.NewNotFound(utils.EntityProperty, id)
	}

	n, err := s.deals.CountByPropertyID(ctx, id)
	if err != nil {
		return err
	}
	if n > 0 {
		return utils.NewBusiness(utils.BusinessCodePropertyHasDeals)
	}

	if err := s.props.Delete(ctx, id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return utils.NewNotFound(utils.EntityProperty, id)
		}
		return err
	}
	s.cache.Invalidate(id)
	return nil
}
