// Package storetest checks a database.Store implementation against the
// behaviour the services rely on. Every store package runs it from its tests.
package storetest

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/ray-remotestate/foodcourt/database"
	"github.com/ray-remotestate/foodcourt/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Run exercises s. Data is tagged with a random token so the suite can run
// against a shared database.
func Run(t *testing.T, s database.Store) {
	tag := uuid.NewString()[:8]

	t.Run("foods", func(t *testing.T) { testFoods(t, s, tag) })
	t.Run("orders", func(t *testing.T) { testOrders(t, s, tag) })
	t.Run("users", func(t *testing.T) { testUsers(t, s, tag) })
}

func newFood(name string, category models.Category, price float64) *models.FoodItem {
	return &models.FoodItem{
		Name:        name,
		Description: "description of " + name,
		Price:       price,
		Category:    category,
		Image:       models.DefaultFoodImage,
		IsAvailable: true,
	}
}

// absentID returns a well-formed identifier that no longer resolves.
func absentID(t *testing.T, s database.Store) string {
	t.Helper()
	ctx := context.Background()
	f := newFood("gone", models.CategoryOther, 1)
	require.NoError(t, s.CreateFood(ctx, f))
	require.NoError(t, s.DeleteFood(ctx, f.ID))
	return f.ID
}

func testFoods(t *testing.T, s database.Store, tag string) {
	ctx := context.Background()

	burger := newFood(tag+" Classic Burger", models.CategoryMain, 8.99)
	salad := newFood(tag+" Caesar Salad", models.CategoryAppetizer, 6.99)
	rings := newFood(tag+" Onion_Rings (100%)", models.CategoryAppetizer, 4.99)
	for _, f := range []*models.FoodItem{burger, salad, rings} {
		require.NoError(t, s.CreateFood(ctx, f))
		require.NotEmpty(t, f.ID)
		require.False(t, f.CreatedAt.IsZero())
	}

	got, err := s.GetFood(ctx, burger.ID)
	require.NoError(t, err)
	assert.Equal(t, burger.Name, got.Name)
	assert.Equal(t, 8.99, got.Price)
	assert.Equal(t, models.CategoryMain, got.Category)
	assert.True(t, got.IsAvailable)

	all, err := s.ListFoods(ctx, models.FoodFilter{Search: tag})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, rings.ID, all[0].ID, "newest first")

	appetizers, err := s.ListFoods(ctx, models.FoodFilter{Search: tag, Category: models.CategoryAppetizer})
	require.NoError(t, err)
	assert.Len(t, appetizers, 2)

	upper, err := s.ListFoods(ctx, models.FoodFilter{Search: tag + " CAESAR"})
	require.NoError(t, err)
	require.Len(t, upper, 1)
	assert.Equal(t, salad.ID, upper[0].ID)

	literal, err := s.ListFoods(ctx, models.FoodFilter{Search: tag + " onion_rings (100%"})
	require.NoError(t, err)
	require.Len(t, literal, 1)
	assert.Equal(t, rings.ID, literal[0].ID)

	price := 9.49
	off := false
	updated, err := s.UpdateFood(ctx, burger.ID, models.FoodUpdate{Price: &price, IsAvailable: &off})
	require.NoError(t, err)
	assert.Equal(t, 9.49, updated.Price)
	assert.False(t, updated.IsAvailable)
	assert.Equal(t, burger.Name, updated.Name)

	// The price handed back on write is the one later reads return.
	for _, p := range []float64{0, 0.1, 12.3, 100000} {
		f := newFood(tag+" Priced", models.CategoryOther, p)
		require.NoError(t, s.CreateFood(ctx, f))
		stored, err := s.GetFood(ctx, f.ID)
		require.NoError(t, err)
		assert.Equal(t, f.Price, stored.Price)
		assert.Equal(t, p, stored.Price)

		next := p + 0.05
		written, err := s.UpdateFood(ctx, f.ID, models.FoodUpdate{Price: &next})
		require.NoError(t, err)
		stored, err = s.GetFood(ctx, f.ID)
		require.NoError(t, err)
		assert.Equal(t, written.Price, stored.Price)
		require.NoError(t, s.DeleteFood(ctx, f.ID))
	}

	require.NoError(t, s.DeleteFood(ctx, salad.ID))
	_, err = s.GetFood(ctx, salad.ID)
	assert.ErrorIs(t, err, database.ErrNotFound)

	for _, id := range []string{absentID(t, s), "not-an-id"} {
		_, err = s.GetFood(ctx, id)
		assert.ErrorIs(t, err, database.ErrNotFound, id)
		_, err = s.UpdateFood(ctx, id, models.FoodUpdate{Price: &price})
		assert.ErrorIs(t, err, database.ErrNotFound, id)
		assert.ErrorIs(t, s.DeleteFood(ctx, id), database.ErrNotFound, id)
	}
}

func testOrders(t *testing.T, s database.Store, tag string) {
	ctx := context.Background()

	user := &models.User{Name: "Orderer", Email: tag + "-orders@example.com", Password: "hash"}
	require.NoError(t, s.CreateUser(ctx, user))
	burger := newFood(tag+" Order Burger", models.CategoryMain, 8.99)
	cola := newFood(tag+" Order Cola", models.CategoryBeverage, 2.99)
	require.NoError(t, s.CreateFood(ctx, burger))
	require.NoError(t, s.CreateFood(ctx, cola))

	first := &models.Order{
		UserID: user.ID,
		Items: []models.OrderItem{
			{FoodID: burger.ID, Quantity: 2, Price: 8.99},
			{FoodID: cola.ID, Quantity: 1, Price: 2.99},
		},
		TotalPrice:      20.97,
		Status:          models.StatusPending,
		DeliveryAddress: "123 Main St",
	}
	require.NoError(t, s.CreateOrder(ctx, first))
	require.NotEmpty(t, first.ID)

	second := &models.Order{
		UserID:          user.ID,
		Items:           []models.OrderItem{{FoodID: cola.ID, Quantity: 3, Price: 2.99}},
		TotalPrice:      8.97,
		Status:          models.StatusPending,
		DeliveryAddress: "123 Main St",
	}
	require.NoError(t, s.CreateOrder(ctx, second))

	got, err := s.GetOrder(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.UserID)
	assert.Equal(t, first.Items, got.Items)
	assert.Equal(t, 20.97, got.TotalPrice)

	mine, err := s.ListOrders(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, mine, 2)
	assert.Equal(t, second.ID, mine[0].ID, "newest first")
	assert.Equal(t, first.Items, mine[1].Items)

	all, err := s.ListOrders(ctx, "")
	require.NoError(t, err)
	assert.GreaterOrEqual(t, len(all), 2)

	status := models.StatusDelivered
	updated, err := s.UpdateOrder(ctx, first.ID, models.OrderUpdate{Status: &status})
	require.NoError(t, err)
	assert.Equal(t, models.StatusDelivered, updated.Status)
	assert.Equal(t, "123 Main St", updated.DeliveryAddress)
	assert.Equal(t, first.Items, updated.Items)
	assert.Equal(t, 20.97, updated.TotalPrice)

	addr := "456 Oak Ave"
	updated, err = s.UpdateOrder(ctx, first.ID, models.OrderUpdate{DeliveryAddress: &addr})
	require.NoError(t, err)
	assert.Equal(t, models.StatusDelivered, updated.Status)
	assert.Equal(t, addr, updated.DeliveryAddress)

	// lines are snapshots and outlive the catalog entry
	require.NoError(t, s.DeleteFood(ctx, cola.ID))
	got, err = s.GetOrder(ctx, second.ID)
	require.NoError(t, err)
	assert.Equal(t, second.Items, got.Items)

	for _, id := range []string{absentID(t, s), "not-an-id"} {
		_, err = s.GetOrder(ctx, id)
		assert.ErrorIs(t, err, database.ErrNotFound, id)
		_, err = s.UpdateOrder(ctx, id, models.OrderUpdate{Status: &status})
		assert.ErrorIs(t, err, database.ErrNotFound, id)
	}
}

func testUsers(t *testing.T, s database.Store, tag string) {
	ctx := context.Background()

	u := &models.User{Name: "Jane Smith", Email: tag + "-jane@example.com", Password: "hash", IsAdmin: true}
	require.NoError(t, s.CreateUser(ctx, u))
	require.NotEmpty(t, u.ID)

	got, err := s.GetUser(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, u.Email, got.Email)
	assert.Equal(t, "hash", got.Password)
	assert.True(t, got.IsAdmin)

	byEmail, err := s.GetUserByEmail(ctx, tag+"-JANE@example.com")
	require.NoError(t, err)
	assert.Equal(t, u.ID, byEmail.ID)

	err = s.CreateUser(ctx, &models.User{Name: "Other", Email: tag + "-Jane@Example.com", Password: "hash"})
	assert.ErrorIs(t, err, database.ErrDuplicate)

	_, err = s.GetUserByEmail(ctx, tag+"-nobody@example.com")
	assert.ErrorIs(t, err, database.ErrNotFound)
	_, err = s.GetUser(ctx, "not-an-id")
	assert.ErrorIs(t, err, database.ErrNotFound)
}
