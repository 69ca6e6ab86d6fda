package server

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/ray-remotestate/foodcourt/database"
	"github.com/ray-remotestate/foodcourt/handlers"
	"github.com/ray-remotestate/foodcourt/middlewares"
	"github.com/ray-remotestate/foodcourt/models"
)

type Server struct {
	Router *mux.Router
	server *http.Server
}

const (
	readTimeout       = 5 * time.Minute
	readHeaderTimeout = 30 * time.Second
	writeTimeout      = 5 * time.Minute
)

func SetupRoutes(h *handlers.Handler, users database.UserStore, secretKey []byte) *Server {
	router := mux.NewRouter()
	router.Use(middlewares.RequestLogger)

	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		io.WriteString(w, `{"alive": true}`)
	}).Methods("GET")

	api := router.PathPrefix("/api").Subrouter()

	// public
	api.HandleFunc("/auth/register", h.Register).Methods("POST")
	api.HandleFunc("/auth/login", h.Login).Methods("POST")
	api.HandleFunc("/foods", h.ListFoods).Methods("GET")
	api.HandleFunc("/foods/{id}", h.GetFood).Methods("GET")

	authRoutes := api.NewRoute().Subrouter()
	authRoutes.Use(middlewares.AuthMiddleware(secretKey, users))

	authRoutes.HandleFunc("/auth/me", h.Me).Methods("GET")
	authRoutes.HandleFunc("/orders", h.PlaceOrder).Methods("POST")
	authRoutes.HandleFunc("/orders", h.ListMyOrders).Methods("GET")
	authRoutes.HandleFunc("/orders/{id}", h.GetOrder).Methods("GET")

	// admin only
	admin := api.NewRoute().Subrouter()
	admin.Use(middlewares.AuthMiddleware(secretKey, users), middlewares.RoleBasedMiddleware(models.RoleAdmin))

	admin.HandleFunc("/foods", h.CreateFood).Methods("POST")
	admin.HandleFunc("/foods/{id}", h.UpdateFood).Methods("PUT")
	admin.HandleFunc("/foods/{id}", h.DeleteFood).Methods("DELETE")
	admin.HandleFunc("/orders/all/admin", h.ListAllOrders).Methods("GET")
	admin.HandleFunc("/orders/{id}/status", h.SetOrderStatus).Methods("PUT")
	admin.HandleFunc("/orders/{id}", h.UpdateOrder).Methods("PUT")

	return &Server{
		Router: router,
	}
}

func (svr *Server) Run(port string) error {
	svr.server = &http.Server{
		Addr:              port,
		Handler:           svr.Router,
		ReadTimeout:       readTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
		WriteTimeout:      writeTimeout,
	}
	return svr.server.ListenAndServe()
}

func (svr *Server) Shutdown(timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return svr.server.Shutdown(ctx)
}
