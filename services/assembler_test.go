package services

import (
	"context"
	"math"
	"testing"

	"github.com/google/uuid"
	"github.com/ray-remotestate/foodcourt/database/memstore"
	"github.com/ray-remotestate/foodcourt/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAssemblePricesFromCatalog(t *testing.T) {
	store := memstore.New()
	burger := addFood(t, store, "Classic Burger", 8.99, true)

	order, err := Assemble(context.Background(), store, "user-1", PlaceOrderInput{
		Items:           []LineRequest{{FoodID: burger.ID, Quantity: 2}},
		DeliveryAddress: "X",
	})
	require.NoError(t, err)

	assert.Equal(t, 17.98, order.TotalPrice)
	assert.Equal(t, models.StatusPending, order.Status)
	assert.Equal(t, "X", order.DeliveryAddress)
	assert.Equal(t, "user-1", order.UserID)
	require.Len(t, order.Items, 1)
	assert.Equal(t, models.OrderItem{FoodID: burger.ID, Quantity: 2, Price: 8.99}, order.Items[0])
}

func TestAssembleTotalIsSumOfLines(t *testing.T) {
	store := memstore.New()
	prices := []float64{8.99, 12.99, 6.99, 0.1, 0.2, 2.99, 0}
	var lines []LineRequest
	for i, p := range prices {
		f := addFood(t, store, "item", p, true)
		lines = append(lines, LineRequest{FoodID: f.ID, Quantity: i + 1})
	}

	order, err := Assemble(context.Background(), store, "user-1", PlaceOrderInput{Items: lines, DeliveryAddress: "addr"})
	require.NoError(t, err)

	want := decimal.Zero
	for _, it := range order.Items {
		want = want.Add(decimal.NewFromFloat(it.Price).Mul(decimal.NewFromInt(int64(it.Quantity))))
	}
	assert.Equal(t, want.InexactFloat64(), order.TotalPrice)
	// 8.99 + 25.98 + 20.97 + 0.4 + 1.0 + 17.94 + 0
	assert.Equal(t, 75.28, order.TotalPrice)
}

func TestAssembleKeepsSubmissionOrder(t *testing.T) {
	store := memstore.New()
	a := addFood(t, store, "A", 1, true)
	b := addFood(t, store, "B", 2, true)

	order, err := Assemble(context.Background(), store, "u", PlaceOrderInput{
		Items:           []LineRequest{{FoodID: b.ID, Quantity: 1}, {FoodID: a.ID, Quantity: 3}, {FoodID: b.ID, Quantity: 2}},
		DeliveryAddress: "addr",
	})
	require.NoError(t, err)
	require.Len(t, order.Items, 3)
	assert.Equal(t, b.ID, order.Items[0].FoodID)
	assert.Equal(t, a.ID, order.Items[1].FoodID)
	assert.Equal(t, b.ID, order.Items[2].FoodID)
	assert.Equal(t, 9.0, order.TotalPrice)
}

func TestAssembleFailures(t *testing.T) {
	store := memstore.New()
	a := addFood(t, store, "Classic Burger", 8.99, true)
	b := addFood(t, store, "Coca Cola", 2.99, false)
	missing := uuid.NewString()

	tests := []struct {
		name    string
		in      PlaceOrderInput
		kind    Kind
		message string
	}{
		{
			name:    "no items",
			in:      PlaceOrderInput{DeliveryAddress: "X"},
			kind:    KindValidation,
			message: "No order items provided",
		},
		{
			name:    "blank address",
			in:      PlaceOrderInput{Items: []LineRequest{{FoodID: a.ID, Quantity: 1}}, DeliveryAddress: "  "},
			kind:    KindValidation,
			message: "Please provide delivery address",
		},
		{
			name:    "zero quantity",
			in:      PlaceOrderInput{Items: []LineRequest{{FoodID: a.ID, Quantity: 0}}, DeliveryAddress: "X"},
			kind:    KindValidation,
			message: "Quantity for food item " + a.ID + " must be at least 1",
		},
		{
			name:    "quantity above max",
			in:      PlaceOrderInput{Items: []LineRequest{{FoodID: a.ID, Quantity: MaxQuantity + 1}}, DeliveryAddress: "X"},
			kind:    KindValidation,
			message: "Quantity for food item " + a.ID + " must be at most 1000",
		},
		{
			name:    "unavailable second line",
			in:      PlaceOrderInput{Items: []LineRequest{{FoodID: a.ID, Quantity: 2}, {FoodID: b.ID, Quantity: 1}}, DeliveryAddress: "X"},
			kind:    KindUnavailable,
			message: "Coca Cola is not available",
		},
		{
			name:    "missing item",
			in:      PlaceOrderInput{Items: []LineRequest{{FoodID: a.ID, Quantity: 1}, {FoodID: missing, Quantity: 1}}, DeliveryAddress: "X"},
			kind:    KindNotFound,
			message: "Food item " + missing + " not found",
		},
		{
			name:    "malformed id",
			in:      PlaceOrderInput{Items: []LineRequest{{FoodID: "not-an-id", Quantity: 1}}, DeliveryAddress: "X"},
			kind:    KindNotFound,
			message: "Food item not-an-id not found",
		},
		{
			name:    "first failing line wins",
			in:      PlaceOrderInput{Items: []LineRequest{{FoodID: missing, Quantity: 1}, {FoodID: b.ID, Quantity: 1}}, DeliveryAddress: "X"},
			kind:    KindNotFound,
			message: "Food item " + missing + " not found",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			order, err := Assemble(context.Background(), store, "u", tt.in)
			assert.Nil(t, order)
			requireKind(t, err, tt.kind)
			assert.Equal(t, tt.message, err.(*Error).Message)
		})
	}
}

func TestAssembleStoreFailureIsUnexpected(t *testing.T) {
	_, err := Assemble(context.Background(), brokenFoods{}, "u", PlaceOrderInput{
		Items:           []LineRequest{{FoodID: uuid.NewString(), Quantity: 1}},
		DeliveryAddress: "X",
	})
	requireKind(t, err, KindUnexpected)
	assert.ErrorIs(t, err, errBoom)
}

func TestAssembleRejectsTotalBeyondStorableRange(t *testing.T) {
	store := memstore.New()
	// Written straight to the store, bypassing the catalog's price checks.
	gold := addFood(t, store, "Gold", math.MaxFloat64/2, true)
	cheap := addFood(t, store, "Rice", MaxPrice, true)

	for name, in := range map[string]PlaceOrderInput{
		"overflowing price": {Items: []LineRequest{{FoodID: gold.ID, Quantity: 4}}, DeliveryAddress: "X"},
		"too many lines": {Items: func() []LineRequest {
			lines := make([]LineRequest, 101)
			for i := range lines {
				lines[i] = LineRequest{FoodID: cheap.ID, Quantity: MaxQuantity}
			}
			return lines
		}(), DeliveryAddress: "X"},
	} {
		t.Run(name, func(t *testing.T) {
			orders := NewOrders(store, store, store)
			view, err := orders.Place(context.Background(), Identity{UserID: "u"}, in)
			assert.Nil(t, view)
			requireKind(t, err, KindValidation)
			assert.Equal(t, "Order total exceeds 9999999999.99", err.(*Error).Message)

			stored, err := store.ListOrders(context.Background(), "")
			require.NoError(t, err)
			assert.Empty(t, stored)
		})
	}
}

func TestAssembleAcceptsLargestRegularLine(t *testing.T) {
	store := memstore.New()
	food := addFood(t, store, "Banquet", MaxPrice, true)

	order, err := Assemble(context.Background(), store, "u", PlaceOrderInput{
		Items:           []LineRequest{{FoodID: food.ID, Quantity: MaxQuantity}},
		DeliveryAddress: "X",
	})
	require.NoError(t, err)
	assert.Equal(t, 1e8, order.TotalPrice)
}
