package handlers

import (
	"net/http"
	"strings"

	"github.com/gorilla/mux"
	"github.com/ray-remotestate/foodcourt/models"
	"github.com/ray-remotestate/foodcourt/services"
)

type createFoodRequest struct {
	Name        string   `json:"name" validate:"required"`
	Description string   `json:"description" validate:"required"`
	Price       *float64 `json:"price" validate:"required,gte=0,lte=100000"`
	Category    string   `json:"category" validate:"required,oneof=appetizer main dessert beverage other"`
	Image       string   `json:"image"`
	IsAvailable *bool    `json:"isAvailable"`
}

type updateFoodRequest struct {
	Name        *string  `json:"name" validate:"omitempty,min=1"`
	Description *string  `json:"description" validate:"omitempty,min=1"`
	Price       *float64 `json:"price" validate:"omitempty,gte=0,lte=100000"`
	Category    *string  `json:"category" validate:"omitempty,oneof=appetizer main dessert beverage other"`
	Image       *string  `json:"image"`
	IsAvailable *bool    `json:"isAvailable"`
}

func (h *Handler) ListFoods(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	foods, err := h.catalog.List(r.Context(), models.FoodFilter{
		Category: models.Category(strings.TrimSpace(q.Get("category"))),
		Search:   strings.TrimSpace(q.Get("search")),
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, foods)
}

func (h *Handler) GetFood(w http.ResponseWriter, r *http.Request) {
	food, err := h.catalog.Get(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, food)
}

func (h *Handler) CreateFood(w http.ResponseWriter, r *http.Request) {
	var req createFoodRequest
	if err := h.decode(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	food, err := h.catalog.Create(r.Context(), services.CreateFoodInput{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Category:    models.Category(req.Category),
		Image:       req.Image,
		IsAvailable: req.IsAvailable,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, food)
}

func (h *Handler) UpdateFood(w http.ResponseWriter, r *http.Request) {
	var req updateFoodRequest
	if err := h.decode(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	update := models.FoodUpdate{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Image:       req.Image,
		IsAvailable: req.IsAvailable,
	}
	if req.Category != nil {
		c := models.Category(*req.Category)
		update.Category = &c
	}

	food, err := h.catalog.Update(r.Context(), mux.Vars(r)["id"], update)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, food)
}

func (h *Handler) DeleteFood(w http.ResponseWriter, r *http.Request) {
	if err := h.catalog.Delete(r.Context(), mux.Vars(r)["id"]); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Message: "Food item removed"})
}
