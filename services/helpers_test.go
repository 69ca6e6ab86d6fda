package services

import (
	"context"
	"errors"
	"testing"

	"github.com/ray-remotestate/foodcourt/database"
	"github.com/ray-remotestate/foodcourt/database/memstore"
	"github.com/ray-remotestate/foodcourt/models"
	"github.com/stretchr/testify/require"
)

func addFood(t *testing.T, store *memstore.Store, name string, price float64, available bool) models.FoodItem {
	t.Helper()
	f := &models.FoodItem{
		Name:        name,
		Description: name + " description",
		Price:       price,
		Category:    models.CategoryMain,
		Image:       models.DefaultFoodImage,
		IsAvailable: available,
	}
	require.NoError(t, store.CreateFood(context.Background(), f))
	return *f
}

func addUser(t *testing.T, store *memstore.Store, name, email string) models.User {
	t.Helper()
	u := &models.User{Name: name, Email: email, Password: "x"}
	require.NoError(t, store.CreateUser(context.Background(), u))
	return *u
}

func requireKind(t *testing.T, err error, kind Kind) {
	t.Helper()
	require.Error(t, err)
	require.Equal(t, kind, KindOf(err), "error: %v", err)
}

var errBoom = errors.New("boom")

// brokenFoods fails every catalog lookup.
type brokenFoods struct {
	database.FoodStore
}

func (brokenFoods) GetFood(context.Context, string) (*models.FoodItem, error) {
	return nil, errBoom
}

func (brokenFoods) ListFoods(context.Context, models.FoodFilter) ([]models.FoodItem, error) {
	return nil, errBoom
}
