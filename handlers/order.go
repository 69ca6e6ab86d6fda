package handlers

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/ray-remotestate/foodcourt/models"
	"github.com/ray-remotestate/foodcourt/services"
)

type orderLineRequest struct {
	Food     string `json:"food" validate:"required"`
	Quantity int    `json:"quantity" validate:"required,min=1,max=1000"`
}

type placeOrderRequest struct {
	Items           []orderLineRequest `json:"items" validate:"required,min=1,dive"`
	DeliveryAddress string             `json:"deliveryAddress" validate:"required"`
}

type setStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=pending confirmed preparing delivered cancelled"`
}

type updateOrderRequest struct {
	Status          *string `json:"status" validate:"omitempty,oneof=pending confirmed preparing delivered cancelled"`
	DeliveryAddress *string `json:"deliveryAddress" validate:"omitempty,min=1"`
}

func (h *Handler) PlaceOrder(w http.ResponseWriter, r *http.Request) {
	caller, err := identity(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	var req placeOrderRequest
	if err := h.decode(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	in := services.PlaceOrderInput{
		Items:           make([]services.LineRequest, 0, len(req.Items)),
		DeliveryAddress: req.DeliveryAddress,
	}
	for _, item := range req.Items {
		in.Items = append(in.Items, services.LineRequest{FoodID: item.Food, Quantity: item.Quantity})
	}

	order, err := h.orders.Place(r.Context(), caller, in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, order)
}

func (h *Handler) ListMyOrders(w http.ResponseWriter, r *http.Request) {
	caller, err := identity(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	orders, err := h.orders.Mine(r.Context(), caller)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, orders)
}

func (h *Handler) GetOrder(w http.ResponseWriter, r *http.Request) {
	caller, err := identity(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	order, err := h.orders.Get(r.Context(), caller, mux.Vars(r)["id"])
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, order)
}

func (h *Handler) ListAllOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.orders.All(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, orders)
}

func (h *Handler) SetOrderStatus(w http.ResponseWriter, r *http.Request) {
	var req setStatusRequest
	if err := h.decode(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	order, err := h.orders.SetStatus(r.Context(), mux.Vars(r)["id"], models.OrderStatus(req.Status))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, order)
}

func (h *Handler) UpdateOrder(w http.ResponseWriter, r *http.Request) {
	var req updateOrderRequest
	if err := h.decode(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	update := models.OrderUpdate{DeliveryAddress: req.DeliveryAddress}
	if req.Status != nil {
		s := models.OrderStatus(*req.Status)
		update.Status = &s
	}

	order, err := h.orders.Update(r.Context(), mux.Vars(r)["id"], update)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, order)
}
