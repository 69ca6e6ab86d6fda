package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/ray-remotestate/foodcourt/database"
	"github.com/ray-remotestate/foodcourt/models"
	"github.com/sirupsen/logrus"
)

const orderNotFound = "Order not found"

// Identity is the caller as resolved by the access gate.
type Identity struct {
	UserID  string
	IsAdmin bool
}

type UserSummary struct {
	ID    string `json:"id"`
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
}

type FoodSummary struct {
	ID    string  `json:"id"`
	Name  string  `json:"name"`
	Price float64 `json:"price"`
	Image string  `json:"image"`
}

// OrderLineView shows a line snapshot next to the current catalog entry.
// Food is nil once the item has been removed from the catalog.
type OrderLineView struct {
	Food     *FoodSummary `json:"food"`
	Quantity int          `json:"quantity"`
	Price    float64      `json:"price"`
}

type OrderView struct {
	ID              string             `json:"id"`
	User            UserSummary        `json:"user"`
	Items           []OrderLineView    `json:"items"`
	TotalPrice      float64            `json:"totalPrice"`
	Status          models.OrderStatus `json:"status"`
	DeliveryAddress string             `json:"deliveryAddress"`
	CreatedAt       time.Time          `json:"createdAt"`
}

type Orders struct {
	foods  database.FoodStore
	orders database.OrderStore
	users  database.UserStore
}

func NewOrders(foods database.FoodStore, orders database.OrderStore, users database.UserStore) *Orders {
	return &Orders{foods: foods, orders: orders, users: users}
}

// Place assembles and persists a new pending order for the caller.
func (o *Orders) Place(ctx context.Context, caller Identity, in PlaceOrderInput) (*OrderView, error) {
	order, err := Assemble(ctx, o.foods, caller.UserID, in)
	if err != nil {
		return nil, err
	}
	if err := o.orders.CreateOrder(ctx, order); err != nil {
		return nil, Unexpected(err)
	}
	logrus.WithFields(logrus.Fields{
		"order_id": order.ID,
		"user_id":  order.UserID,
		"total":    order.TotalPrice,
	}).Info("order placed")
	return o.view(ctx, order)
}

// Mine lists the caller's own orders, newest first.
func (o *Orders) Mine(ctx context.Context, caller Identity) ([]OrderView, error) {
	return o.list(ctx, caller.UserID)
}

// All lists every order, newest first.
func (o *Orders) All(ctx context.Context) ([]OrderView, error) {
	return o.list(ctx, "")
}

// Get returns an order if the caller owns it or is an admin.
func (o *Orders) Get(ctx context.Context, caller Identity, id string) (*OrderView, error) {
	order, err := o.orders.GetOrder(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, orderNotFound)
	}
	if order.UserID != caller.UserID && !caller.IsAdmin {
		return nil, ForbiddenError("Not authorized to view this order")
	}
	return o.view(ctx, order)
}

// SetStatus writes any valid status; transitions are not restricted.
func (o *Orders) SetStatus(ctx context.Context, id string, status models.OrderStatus) (*OrderView, error) {
	if status == "" {
		return nil, ValidationError("Please provide status")
	}
	return o.Update(ctx, id, models.OrderUpdate{Status: &status})
}

// Update changes status and/or delivery address. Lines and total are left
// untouched.
func (o *Orders) Update(ctx context.Context, id string, update models.OrderUpdate) (*OrderView, error) {
	if update.Status != nil && !update.Status.IsValid() {
		return nil, ValidationError("Invalid status %q", *update.Status)
	}
	if update.DeliveryAddress != nil {
		address := strings.TrimSpace(*update.DeliveryAddress)
		if address == "" {
			return nil, ValidationError("Delivery address must not be empty")
		}
		update.DeliveryAddress = &address
	}

	order, err := o.orders.UpdateOrder(ctx, id, update)
	if err != nil {
		return nil, notFoundOr(err, orderNotFound)
	}
	logrus.WithFields(logrus.Fields{
		"order_id": order.ID,
		"status":   order.Status,
	}).Info("order updated")
	return o.view(ctx, order)
}

func (o *Orders) list(ctx context.Context, userID string) ([]OrderView, error) {
	orders, err := o.orders.ListOrders(ctx, userID)
	if err != nil {
		return nil, Unexpected(err)
	}
	views := make([]OrderView, 0, len(orders))
	for i := range orders {
		v, err := o.view(ctx, &orders[i])
		if err != nil {
			return nil, err
		}
		views = append(views, *v)
	}
	return views, nil
}

// view resolves the user and food references of an order for display.
func (o *Orders) view(ctx context.Context, order *models.Order) (*OrderView, error) {
	v := &OrderView{
		ID:              order.ID,
		User:            UserSummary{ID: order.UserID},
		Items:           make([]OrderLineView, 0, len(order.Items)),
		TotalPrice:      order.TotalPrice,
		Status:          order.Status,
		DeliveryAddress: order.DeliveryAddress,
		CreatedAt:       order.CreatedAt,
	}

	user, err := o.users.GetUser(ctx, order.UserID)
	switch {
	case err == nil:
		v.User.Name, v.User.Email = user.Name, user.Email
	case !errors.Is(err, database.ErrNotFound):
		return nil, Unexpected(err)
	}

	foods := make(map[string]*FoodSummary)
	for _, item := range order.Items {
		summary, seen := foods[item.FoodID]
		if !seen {
			food, err := o.foods.GetFood(ctx, item.FoodID)
			switch {
			case err == nil:
				summary = &FoodSummary{ID: food.ID, Name: food.Name, Price: food.Price, Image: food.Image}
			case !errors.Is(err, database.ErrNotFound):
				return nil, Unexpected(err)
			}
			foods[item.FoodID] = summary
		}
		v.Items = append(v.Items, OrderLineView{Food: summary, Quantity: item.Quantity, Price: item.Price})
	}
	return v, nil
}
