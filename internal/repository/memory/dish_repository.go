package memory

import (
	"context"
	"sync"

	"github.com/CameronXie/grubdash/internal/domain"
	"github.com/CameronXie/grubdash/internal/repository"
)

const (
	DishResource = "Dish"
)

// DishRepository keeps dishes in insertion order in process memory.
type DishRepository struct {
	mu     sync.RWMutex
	dishes []domain.Dish
}

// NewDishRepository creates a DishRepository pre-populated with seed.
func NewDishRepository(seed ...domain.Dish) *DishRepository {
	return &DishRepository{dishes: append([]domain.Dish(nil), seed...)}
}

// ListDishes returns a copy of every stored dish.
func (r *DishRepository) ListDishes(ctx context.Context) ([]domain.Dish, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	return append(make([]domain.Dish, 0, len(r.dishes)), r.dishes...), nil
}

// CreateDish appends dish to the collection.
func (r *DishRepository) CreateDish(ctx context.Context, dish *domain.Dish) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.dishes = append(r.dishes, *dish)
	return nil
}

// GetDishByID returns a copy of the dish with the given id.
func (r *DishRepository) GetDishByID(ctx context.Context, id string) (*domain.Dish, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	idx := r.indexOf(id)
	if idx < 0 {
		return nil, notFound(DishResource, id)
	}

	dish := r.dishes[idx]
	return &dish, nil
}

// UpdateDish overwrites every field of the stored dish matching dish.ID.
func (r *DishRepository) UpdateDish(ctx context.Context, dish *domain.Dish) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	idx := r.indexOf(dish.ID)
	if idx < 0 {
		return notFound(DishResource, dish.ID)
	}

	r.dishes[idx] = *dish
	return nil
}

func (r *DishRepository) indexOf(id string) int {
	for i := range r.dishes {
		if r.dishes[i].ID == id {
			return i
		}
	}

	return -1
}

func notFound(resource, id string) error {
	return &repository.NotFoundError{
		Resource: resource,
		Key:      "id",
		Value:    id,
	}
}
