package models

import (
	"time"
)

const DefaultFoodImage = "default-food.jpg"

type Category string

const (
	CategoryAppetizer Category = "appetizer"
	CategoryMain      Category = "main"
	CategoryDessert   Category = "dessert"
	CategoryBeverage  Category = "beverage"
	CategoryOther     Category = "other"
)

func (c Category) IsValid() bool {
	switch c {
	case CategoryAppetizer, CategoryMain, CategoryDessert, CategoryBeverage, CategoryOther:
		return true
	}
	return false
}

type FoodItem struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Price       float64   `json:"price"`
	Category    Category  `json:"category"`
	Image       string    `json:"image"`
	IsAvailable bool      `json:"isAvailable"`
	CreatedAt   time.Time `json:"createdAt"`
}

// FoodFilter narrows a catalog listing. Empty fields match everything.
type FoodFilter struct {
	Category Category
	Search   string
}

// FoodUpdate carries the fields of a partial update; nil means unchanged.
type FoodUpdate struct {
	Name        *string
	Description *string
	Price       *float64
	Category    *Category
	Image       *string
	IsAvailable *bool
}

func (u FoodUpdate) Apply(f *FoodItem) {
	if u.Name != nil {
		f.Name = *u.Name
	}
	if u.Description != nil {
		f.Description = *u.Description
	}
	if u.Price != nil {
		f.Price = *u.Price
	}
	if u.Category != nil {
		f.Category = *u.Category
	}
	if u.Image != nil {
		f.Image = *u.Image
	}
	if u.IsAvailable != nil {
		f.IsAvailable = *u.IsAvailable
	}
}
