package service

import (
	"context"
	"fmt"

	"github.com/CameronXie/grubdash/internal/domain"
	"github.com/CameronXie/grubdash/internal/idgen"
	"github.com/CameronXie/grubdash/internal/validation"
)

// DishRepository defines the storage operations required by DishService
type DishRepository interface {
	ListDishes(ctx context.Context) ([]domain.Dish, error)
	CreateDish(ctx context.Context, dish *domain.Dish) error
	GetDishByID(ctx context.Context, id string) (*domain.Dish, error)
	UpdateDish(ctx context.Context, dish *domain.Dish) error
}

// DishInput is the client supplied representation of a dish.
type DishInput struct {
	ID          string             `json:"id,omitempty"`
	Name        string             `json:"name"`
	Description string             `json:"description"`
	Price       validation.Integer `json:"price"`
	ImageURL    string             `json:"image_url"`
}

func (in *DishInput) toDish(id string) *domain.Dish {
	price, _ := in.Price.Value()
	return &domain.Dish{
		ID:          id,
		Name:        in.Name,
		Description: in.Description,
		Price:       price,
		ImageURL:    in.ImageURL,
	}
}

var dishRules = []validation.Rule[*DishInput]{
	validation.Required("name", "Dish must include a name",
		func(in *DishInput) string { return in.Name }),
	validation.Required("description", "Dish must include a description",
		func(in *DishInput) string { return in.Description }),
	validation.PositiveInteger("price", "Dish must have a price that is an integer greater than 0",
		func(in *DishInput) validation.Integer { return in.Price }),
	validation.Required("image_url", "Dish must include an image_url",
		func(in *DishInput) string { return in.ImageURL }),
}

// DishService implements the dish lifecycle: list, create, read and full update. Dishes cannot be deleted.
type DishService struct {
	repo DishRepository
	ids  idgen.Generator
}

// NewDishService creates a DishService storing dishes in repo and naming them with ids.
func NewDishService(repo DishRepository, ids idgen.Generator) *DishService {
	return &DishService{
		repo: repo,
		ids:  ids,
	}
}

// ListDishes returns every dish.
func (s *DishService) ListDishes(ctx context.Context) ([]domain.Dish, error) {
	dishes, err := s.repo.ListDishes(ctx)
	if err != nil {
		return nil, fmt.Errorf("list dishes: %w", err)
	}

	return dishes, nil
}

// CreateDish validates in and stores it under a new id.
func (s *DishService) CreateDish(ctx context.Context, in *DishInput) (*domain.Dish, error) {
	if err := validation.Run(in, dishRules...); err != nil {
		return nil, err
	}

	dish := in.toDish(s.ids.NewID())
	if err := s.repo.CreateDish(ctx, dish); err != nil {
		return nil, fmt.Errorf("create dish: %w", err)
	}

	return dish, nil
}

// GetDish returns the dish with the given id or a *repository.NotFoundError.
func (s *DishService) GetDish(ctx context.Context, id string) (*domain.Dish, error) {
	dish, err := s.repo.GetDishByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get dish %s: %w", id, err)
	}

	return dish, nil
}

// UpdateDish replaces every mutable field of the dish identified by routeID. An id in the body
// must be empty or equal to routeID.
func (s *DishService) UpdateDish(ctx context.Context, routeID string, in *DishInput) (*domain.Dish, error) {
	if err := validation.Run(in, dishRules...); err != nil {
		return nil, err
	}

	if in.ID != "" && in.ID != routeID {
		return nil, &validation.ValidationError{
			Field:   "id",
			Message: fmt.Sprintf("Dish id does not match route id. Dish: %s, Route: %s", in.ID, routeID),
		}
	}

	dish := in.toDish(routeID)
	if err := s.repo.UpdateDish(ctx, dish); err != nil {
		return nil, fmt.Errorf("update dish %s: %w", routeID, err)
	}

	return dish, nil
}
