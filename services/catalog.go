package services

import (
	"context"
	"errors"
	"strings"

	"github.com/ray-remotestate/foodcourt/database"
	"github.com/ray-remotestate/foodcourt/models"
	"github.com/sirupsen/logrus"
)

const foodNotFound = "Food item not found"

// Catalog manages the menu.
type Catalog struct {
	foods database.FoodStore
}

func NewCatalog(foods database.FoodStore) *Catalog {
	return &Catalog{foods: foods}
}

type CreateFoodInput struct {
	Name        string
	Description string
	Price       *float64
	Category    models.Category
	Image       string
	IsAvailable *bool
}

func (c *Catalog) List(ctx context.Context, filter models.FoodFilter) ([]models.FoodItem, error) {
	foods, err := c.foods.ListFoods(ctx, filter)
	if err != nil {
		return nil, Unexpected(err)
	}
	return foods, nil
}

func (c *Catalog) Get(ctx context.Context, id string) (*models.FoodItem, error) {
	food, err := c.foods.GetFood(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, foodNotFound)
	}
	return food, nil
}

func (c *Catalog) Create(ctx context.Context, in CreateFoodInput) (*models.FoodItem, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" || strings.TrimSpace(in.Description) == "" || in.Price == nil || in.Category == "" {
		return nil, ValidationError("Please provide all required fields")
	}
	if !validPrice(*in.Price) {
		return nil, ValidationError("Price must be between 0 and %d with at most 2 decimals", MaxPrice)
	}
	if !in.Category.IsValid() {
		return nil, ValidationError("Invalid category %q", in.Category)
	}

	food := &models.FoodItem{
		Name:        name,
		Description: in.Description,
		Price:       *in.Price,
		Category:    in.Category,
		Image:       in.Image,
		IsAvailable: true,
	}
	if food.Image == "" {
		food.Image = models.DefaultFoodImage
	}
	if in.IsAvailable != nil {
		food.IsAvailable = *in.IsAvailable
	}

	if err := c.foods.CreateFood(ctx, food); err != nil {
		return nil, Unexpected(err)
	}
	logrus.WithField("food_id", food.ID).Info("food item created")
	return food, nil
}

func (c *Catalog) Update(ctx context.Context, id string, update models.FoodUpdate) (*models.FoodItem, error) {
	if update.Name != nil {
		name := strings.TrimSpace(*update.Name)
		if name == "" {
			return nil, ValidationError("Name must not be empty")
		}
		update.Name = &name
	}
	if update.Description != nil && strings.TrimSpace(*update.Description) == "" {
		return nil, ValidationError("Description must not be empty")
	}
	if update.Price != nil && !validPrice(*update.Price) {
		return nil, ValidationError("Price must be between 0 and %d with at most 2 decimals", MaxPrice)
	}
	if update.Category != nil && !update.Category.IsValid() {
		return nil, ValidationError("Invalid category %q", *update.Category)
	}

	food, err := c.foods.UpdateFood(ctx, id, update)
	if err != nil {
		return nil, notFoundOr(err, foodNotFound)
	}
	return food, nil
}

// Delete removes a food item. Orders keep their line snapshots.
func (c *Catalog) Delete(ctx context.Context, id string) error {
	if err := c.foods.DeleteFood(ctx, id); err != nil {
		return notFoundOr(err, foodNotFound)
	}
	logrus.WithField("food_id", id).Info("food item removed")
	return nil
}

func notFoundOr(err error, msg string) error {
	if errors.Is(err, database.ErrNotFound) {
		return NotFoundError("%s", msg)
	}
	return Unexpected(err)
}
