package database

import (
	"context"
	"errors"

	"github.com/ray-remotestate/foodcourt/models"
)

var (
	// ErrNotFound is returned for absent documents and for identifiers the
	// store cannot parse; callers never see the difference.
	ErrNotFound  = errors.New("not found")
	ErrDuplicate = errors.New("duplicate key")
)

type FoodStore interface {
	ListFoods(ctx context.Context, filter models.FoodFilter) ([]models.FoodItem, error)
	GetFood(ctx context.Context, id string) (*models.FoodItem, error)
	CreateFood(ctx context.Context, food *models.FoodItem) error
	UpdateFood(ctx context.Context, id string, update models.FoodUpdate) (*models.FoodItem, error)
	DeleteFood(ctx context.Context, id string) error
}

type OrderStore interface {
	CreateOrder(ctx context.Context, order *models.Order) error
	GetOrder(ctx context.Context, id string) (*models.Order, error)
	// ListOrders returns the orders of userID, or every order when userID is empty.
	ListOrders(ctx context.Context, userID string) ([]models.Order, error)
	UpdateOrder(ctx context.Context, id string, update models.OrderUpdate) (*models.Order, error)
}

type UserStore interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUser(ctx context.Context, id string) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
}

type Store interface {
	FoodStore
	OrderStore
	UserStore
	Close(ctx context.Context) error
}
