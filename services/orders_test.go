package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/ray-remotestate/foodcourt/database/memstore"
	"github.com/ray-remotestate/foodcourt/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newOrders(store *memstore.Store) *Orders {
	return NewOrders(store, store, store)
}

func TestPlaceOrderPersistsPendingOrder(t *testing.T) {
	ctx := context.Background()
	store := memstore.New()
	john := addUser(t, store, "John Doe", "john@example.com")
	burger := addFood(t, store, "Classic Burger", 8.99, true)

	view, err := newOrders(store).Place(ctx, Identity{UserID: john.ID}, PlaceOrderInput{
		Items:           []LineRequest{{FoodID: burger.ID, Quantity: 2}},
		DeliveryAddress: "X",
	})
	require.NoError(t, err)

	assert.NotEmpty(t, view.ID)
	assert.Equal(t, 17.98, view.TotalPrice)
	assert.Equal(t, models.StatusPending, view.Status)
	assert.Equal(t, UserSummary{ID: john.ID, Name: "John Doe", Email: "john@example.com"}, view.User)
	require.Len(t, view.Items, 1)
	require.NotNil(t, view.Items[0].Food)
	assert.Equal(t, "Classic Burger", view.Items[0].Food.Name)
	assert.Equal(t, 8.99, view.Items[0].Price)

	stored, err := store.ListOrders(ctx, "")
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.Equal(t, view.ID, stored[0].ID)
}

func TestPlaceOrderFailurePersistsNothing(t *testing.T) {
	ctx := context.Background()
	store := memstore.New()
	john := addUser(t, store, "John Doe", "john@example.com")
	a := addFood(t, store, "Classic Burger", 8.99, true)
	b := addFood(t, store, "Coca Cola", 2.99, false)

	orders := newOrders(store)
	_, err := orders.Place(ctx, Identity{UserID: john.ID}, PlaceOrderInput{
		Items:           []LineRequest{{FoodID: a.ID, Quantity: 2}, {FoodID: b.ID, Quantity: 1}},
		DeliveryAddress: "X",
	})
	requireKind(t, err, KindUnavailable)

	_, err = orders.Place(ctx, Identity{UserID: john.ID}, PlaceOrderInput{
		Items:           []LineRequest{{FoodID: a.ID, Quantity: 1}, {FoodID: uuid.NewString(), Quantity: 1}},
		DeliveryAddress: "X",
	})
	requireKind(t, err, KindNotFound)

	stored, err := store.ListOrders(ctx, "")
	require.NoError(t, err)
	assert.Empty(t, stored)
}

func TestOrderSnapshotSurvivesCatalogChanges(t *testing.T) {
	ctx := context.Background()
	store := memstore.New()
	john := addUser(t, store, "John Doe", "john@example.com")
	burger := addFood(t, store, "Classic Burger", 8.99, true)
	cola := addFood(t, store, "Coca Cola", 2.99, true)
	orders := newOrders(store)

	placed, err := orders.Place(ctx, Identity{UserID: john.ID}, PlaceOrderInput{
		Items:           []LineRequest{{FoodID: burger.ID, Quantity: 1}, {FoodID: cola.ID, Quantity: 2}},
		DeliveryAddress: "X",
	})
	require.NoError(t, err)

	newPrice := 10.49
	_, err = store.UpdateFood(ctx, burger.ID, models.FoodUpdate{Price: &newPrice})
	require.NoError(t, err)
	require.NoError(t, store.DeleteFood(ctx, cola.ID))

	got, err := orders.Get(ctx, Identity{UserID: john.ID}, placed.ID)
	require.NoError(t, err)
	assert.Equal(t, 14.97, got.TotalPrice)
	require.Len(t, got.Items, 2)
	assert.Equal(t, 8.99, got.Items[0].Price)
	assert.Equal(t, 10.49, got.Items[0].Food.Price)
	assert.Nil(t, got.Items[1].Food)
	assert.Equal(t, 2.99, got.Items[1].Price)
}

func TestOrderAccess(t *testing.T) {
	ctx := context.Background()
	store := memstore.New()
	john := addUser(t, store, "John Doe", "john@example.com")
	jane := addUser(t, store, "Jane Smith", "jane@example.com")
	admin := addUser(t, store, "Admin User", "admin@foodapp.com")
	burger := addFood(t, store, "Classic Burger", 8.99, true)
	orders := newOrders(store)

	place := func(u models.User) *OrderView {
		v, err := orders.Place(ctx, Identity{UserID: u.ID}, PlaceOrderInput{
			Items:           []LineRequest{{FoodID: burger.ID, Quantity: 1}},
			DeliveryAddress: u.Name + " street",
		})
		require.NoError(t, err)
		return v
	}
	johns1 := place(john)
	janes := place(jane)
	johns2 := place(john)

	t.Run("owner fetches own order", func(t *testing.T) {
		got, err := orders.Get(ctx, Identity{UserID: john.ID}, johns1.ID)
		require.NoError(t, err)
		assert.Equal(t, johns1.ID, got.ID)
	})

	t.Run("non-owner is forbidden", func(t *testing.T) {
		_, err := orders.Get(ctx, Identity{UserID: jane.ID}, johns1.ID)
		requireKind(t, err, KindForbidden)
	})

	t.Run("admin fetches any order", func(t *testing.T) {
		got, err := orders.Get(ctx, Identity{UserID: admin.ID, IsAdmin: true}, janes.ID)
		require.NoError(t, err)
		assert.Equal(t, janes.ID, got.ID)
	})

	t.Run("missing and malformed ids are not found", func(t *testing.T) {
		_, err := orders.Get(ctx, Identity{UserID: john.ID}, uuid.NewString())
		requireKind(t, err, KindNotFound)
		_, err = orders.Get(ctx, Identity{UserID: john.ID}, "xyz")
		requireKind(t, err, KindNotFound)
	})

	t.Run("mine lists only own orders newest first", func(t *testing.T) {
		mine, err := orders.Mine(ctx, Identity{UserID: john.ID})
		require.NoError(t, err)
		require.Len(t, mine, 2)
		assert.Equal(t, johns2.ID, mine[0].ID)
		assert.Equal(t, johns1.ID, mine[1].ID)
	})

	t.Run("all lists every order", func(t *testing.T) {
		all, err := orders.All(ctx)
		require.NoError(t, err)
		assert.Len(t, all, 3)
	})
}

func TestSetStatusLeavesPricingUntouched(t *testing.T) {
	ctx := context.Background()
	store := memstore.New()
	john := addUser(t, store, "John Doe", "john@example.com")
	burger := addFood(t, store, "Classic Burger", 8.99, true)
	orders := newOrders(store)

	placed, err := orders.Place(ctx, Identity{UserID: john.ID}, PlaceOrderInput{
		Items:           []LineRequest{{FoodID: burger.ID, Quantity: 2}},
		DeliveryAddress: "X",
	})
	require.NoError(t, err)

	// availability no longer matters once the order exists
	off := false
	_, err = store.UpdateFood(ctx, burger.ID, models.FoodUpdate{IsAvailable: &off})
	require.NoError(t, err)

	updated, err := orders.SetStatus(ctx, placed.ID, models.StatusDelivered)
	require.NoError(t, err)
	assert.Equal(t, models.StatusDelivered, updated.Status)
	assert.Equal(t, placed.TotalPrice, updated.TotalPrice)
	assert.Equal(t, placed.Items, updated.Items)

	// any status can follow any other
	updated, err = orders.SetStatus(ctx, placed.ID, models.StatusPending)
	require.NoError(t, err)
	assert.Equal(t, models.StatusPending, updated.Status)
}

func TestSetStatusValidation(t *testing.T) {
	ctx := context.Background()
	store := memstore.New()
	orders := newOrders(store)

	_, err := orders.SetStatus(ctx, uuid.NewString(), "")
	requireKind(t, err, KindValidation)

	_, err = orders.SetStatus(ctx, uuid.NewString(), "shipped")
	requireKind(t, err, KindValidation)

	_, err = orders.SetStatus(ctx, uuid.NewString(), models.StatusConfirmed)
	requireKind(t, err, KindNotFound)
}

func TestUpdateOrderPartial(t *testing.T) {
	ctx := context.Background()
	store := memstore.New()
	john := addUser(t, store, "John Doe", "john@example.com")
	burger := addFood(t, store, "Classic Burger", 8.99, true)
	orders := newOrders(store)

	placed, err := orders.Place(ctx, Identity{UserID: john.ID}, PlaceOrderInput{
		Items:           []LineRequest{{FoodID: burger.ID, Quantity: 1}},
		DeliveryAddress: "123 Main St",
	})
	require.NoError(t, err)

	addr := " 456 Oak Ave "
	updated, err := orders.Update(ctx, placed.ID, models.OrderUpdate{DeliveryAddress: &addr})
	require.NoError(t, err)
	assert.Equal(t, "456 Oak Ave", updated.DeliveryAddress)
	assert.Equal(t, models.StatusPending, updated.Status)
	assert.Equal(t, placed.TotalPrice, updated.TotalPrice)

	blank := "  "
	_, err = orders.Update(ctx, placed.ID, models.OrderUpdate{DeliveryAddress: &blank})
	requireKind(t, err, KindValidation)

	status := models.StatusPreparing
	updated, err = orders.Update(ctx, placed.ID, models.OrderUpdate{Status: &status})
	require.NoError(t, err)
	assert.Equal(t, models.StatusPreparing, updated.Status)
	assert.Equal(t, "456 Oak Ave", updated.DeliveryAddress)
}

func TestOrderViewWithoutAccount(t *testing.T) {
	ctx := context.Background()
	store := memstore.New()
	burger := addFood(t, store, "Classic Burger", 8.99, true)
	ghost := uuid.NewString()

	view, err := newOrders(store).Place(ctx, Identity{UserID: ghost}, PlaceOrderInput{
		Items:           []LineRequest{{FoodID: burger.ID, Quantity: 1}},
		DeliveryAddress: "X",
	})
	require.NoError(t, err)
	assert.Equal(t, UserSummary{ID: ghost}, view.User)
}
