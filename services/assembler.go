package services

import (
	"context"
	"errors"
	"strings"

	"github.com/ray-remotestate/foodcourt/database"
	"github.com/ray-remotestate/foodcourt/models"
)

type LineRequest struct {
	FoodID   string
	Quantity int
}

type PlaceOrderInput struct {
	Items           []LineRequest
	DeliveryAddress string
}

// Assemble resolves every requested line against the catalog in the order
// given and prices it at the catalog's current price. The first bad line
// aborts the whole order. The returned order is not persisted.
func Assemble(ctx context.Context, foods database.FoodStore, userID string, in PlaceOrderInput) (*models.Order, error) {
	if len(in.Items) == 0 {
		return nil, ValidationError("No order items provided")
	}
	address := strings.TrimSpace(in.DeliveryAddress)
	if address == "" {
		return nil, ValidationError("Please provide delivery address")
	}

	items := make([]models.OrderItem, 0, len(in.Items))
	prices := make([]LinePrice, 0, len(in.Items))
	for _, line := range in.Items {
		if line.Quantity < 1 {
			return nil, ValidationError("Quantity for food item %s must be at least 1", line.FoodID)
		}
		if line.Quantity > MaxQuantity {
			return nil, ValidationError("Quantity for food item %s must be at most %d", line.FoodID, MaxQuantity)
		}
		food, err := foods.GetFood(ctx, line.FoodID)
		if errors.Is(err, database.ErrNotFound) {
			return nil, NotFoundError("Food item %s not found", line.FoodID)
		}
		if err != nil {
			return nil, Unexpected(err)
		}
		if !food.IsAvailable {
			return nil, UnavailableError("%s is not available", food.Name)
		}

		items = append(items, models.OrderItem{
			FoodID:   food.ID,
			Quantity: line.Quantity,
			Price:    food.Price,
		})
		prices = append(prices, LinePrice{Price: food.Price, Quantity: line.Quantity})
	}

	total := OrderTotal(prices)
	if total.GreaterThan(maxOrderTotal) {
		return nil, ValidationError("Order total exceeds %s", maxOrderTotal.StringFixed(2))
	}

	return &models.Order{
		UserID:          userID,
		Items:           items,
		TotalPrice:      total.InexactFloat64(),
		Status:          models.StatusPending,
		DeliveryAddress: address,
	}, nil
}
