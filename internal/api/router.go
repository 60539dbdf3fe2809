package api

import (
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"github.com/coffeehouse/storefront/internal/websocket"
)

// NewRouter wires the storefront routes. Every /api route runs inside
// the session middleware; /ws joins the event stream.
func NewRouter(h *Handler, hub *websocket.Hub, logger *logrus.Logger) *mux.Router {
	router := mux.NewRouter()
	router.Use(corsMiddleware())
	router.Use(loggingMiddleware(logger))
	router.Use(recoverMiddleware(logger))

	router.HandleFunc("/health", h.HealthCheck).Methods("GET", "OPTIONS")
	router.HandleFunc("/ws", hub.HandleWebSocket)

	api := router.PathPrefix("/api").Subrouter()
	api.Use(h.sessionMiddleware)

	api.HandleFunc("/catalog/categories", h.ListCategories).Methods("GET", "OPTIONS")
	api.HandleFunc("/catalog/products", h.ListProducts).Methods("GET", "OPTIONS")
	api.HandleFunc("/catalog/products/{id}", h.GetProduct).Methods("GET", "OPTIONS")

	api.HandleFunc("/cart", h.GetCart).Methods("GET", "OPTIONS")
	api.HandleFunc("/cart", h.ClearCart).Methods("DELETE")
	api.HandleFunc("/cart/items", h.AddCartItem).Methods("POST", "OPTIONS")
	api.HandleFunc("/cart/items/{id}", h.UpdateCartItem).Methods("PATCH", "OPTIONS")
	api.HandleFunc("/cart/items/{id}", h.RemoveCartItem).Methods("DELETE")
	api.HandleFunc("/cart/delivery", h.SetDelivery).Methods("PUT", "OPTIONS")

	api.HandleFunc("/checkout", h.SubmitCheckout).Methods("POST", "OPTIONS")

	api.HandleFunc("/orders", h.ListOrders).Methods("GET", "OPTIONS")
	api.HandleFunc("/orders/{id}", h.GetOrder).Methods("GET", "OPTIONS")
	api.HandleFunc("/orders/{id}/status", h.UpdateOrderStatus).Methods("PATCH", "OPTIONS")

	api.HandleFunc("/loyalty", h.GetLoyalty).Methods("GET", "OPTIONS")
	api.HandleFunc("/loyalty/spend", h.SpendPoints).Methods("POST", "OPTIONS")

	api.HandleFunc("/chat/messages", h.ListChatMessages).Methods("GET", "OPTIONS")
	api.HandleFunc("/chat/messages", h.SendChatMessage).Methods("POST")

	api.HandleFunc("/host", h.GetHostInfo).Methods("GET", "OPTIONS")

	return router
}
