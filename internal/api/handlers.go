package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"github.com/coffeehouse/storefront/internal/catalog"
	"github.com/coffeehouse/storefront/internal/checkout"
	"github.com/coffeehouse/storefront/internal/orders"
	"github.com/coffeehouse/storefront/internal/session"
	"github.com/coffeehouse/storefront/internal/telegram"
	"github.com/coffeehouse/storefront/pkg/models"
)

// Handler serves the storefront API: catalog browsing, cart mutations,
// checkout, loyalty, chat and order history, all scoped to the caller's
// session.
type Handler struct {
	catalog  *catalog.Catalog
	sessions *session.Manager
	bridge   telegram.Bridge
	logger   *logrus.Logger
}

func NewHandler(cat *catalog.Catalog, sessions *session.Manager, bridge telegram.Bridge, logger *logrus.Logger) *Handler {
	return &Handler{
		catalog:  cat,
		sessions: sessions,
		bridge:   bridge,
		logger:   logger,
	}
}

func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, map[string]string{
		"status":  "healthy",
		"service": "storefront",
	})
}

func (h *Handler) ListCategories(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, h.catalog.Categories())
}

func (h *Handler) ListProducts(w http.ResponseWriter, r *http.Request) {
	if categoryID := r.URL.Query().Get("category"); categoryID != "" {
		respondWithJSON(w, http.StatusOK, h.catalog.ProductsByCategory(categoryID))
		return
	}
	respondWithJSON(w, http.StatusOK, h.catalog.Products())
}

func (h *Handler) GetProduct(w http.ResponseWriter, r *http.Request) {
	productID := mux.Vars(r)["id"]

	product, err := h.catalog.Product(productID)
	if errors.Is(err, catalog.ErrProductNotFound) {
		respondWithError(w, http.StatusNotFound, "Товар не найден")
		return
	}
	respondWithJSON(w, http.StatusOK, product)
}

func (h *Handler) GetCart(w http.ResponseWriter, r *http.Request) {
	sess := sessionFromContext(r)
	respondWithJSON(w, http.StatusOK, sess.Cart.Snapshot())
}

type addItemRequest struct {
	ProductID       string            `json:"product_id"`
	Quantity        int               `json:"quantity"`
	SelectedOptions map[string]string `json:"selected_options"`
}

func (h *Handler) AddCartItem(w http.ResponseWriter, r *http.Request) {
	sess := sessionFromContext(r)

	var req addItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.ProductID == "" {
		respondWithError(w, http.StatusBadRequest, "product_id is required")
		return
	}

	product, err := h.catalog.Product(req.ProductID)
	if errors.Is(err, catalog.ErrProductNotFound) {
		respondWithError(w, http.StatusNotFound, "Товар не найден")
		return
	}
	if !product.Available {
		respondWithError(w, http.StatusConflict, "Товар временно недоступен")
		return
	}

	sess.Cart.AddItem(product, req.Quantity, req.SelectedOptions)

	h.logger.WithFields(logrus.Fields{
		"session_id": sess.ID,
		"product_id": req.ProductID,
	}).Info("Cart item added")
	respondWithJSON(w, http.StatusCreated, sess.Cart.Snapshot())
}

type updateItemRequest struct {
	Quantity int `json:"quantity"`
}

func (h *Handler) UpdateCartItem(w http.ResponseWriter, r *http.Request) {
	sess := sessionFromContext(r)

	var req updateItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	sess.Cart.UpdateQuantity(mux.Vars(r)["id"], req.Quantity)
	respondWithJSON(w, http.StatusOK, sess.Cart.Snapshot())
}

func (h *Handler) RemoveCartItem(w http.ResponseWriter, r *http.Request) {
	sess := sessionFromContext(r)

	sess.Cart.RemoveItem(mux.Vars(r)["id"])
	respondWithJSON(w, http.StatusOK, sess.Cart.Snapshot())
}

type deliveryRequest struct {
	DeliveryType models.DeliveryType `json:"delivery_type"`
	Address      string              `json:"address"`
}

func (h *Handler) SetDelivery(w http.ResponseWriter, r *http.Request) {
	sess := sessionFromContext(r)

	var req deliveryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.DeliveryType != models.DeliveryTypePickup && req.DeliveryType != models.DeliveryTypeDelivery {
		respondWithError(w, http.StatusBadRequest, "delivery_type must be pickup or delivery")
		return
	}

	sess.Cart.SetDeliveryType(req.DeliveryType)
	sess.Cart.SetDeliveryAddress(req.Address)
	respondWithJSON(w, http.StatusOK, sess.Cart.Snapshot())
}

func (h *Handler) ClearCart(w http.ResponseWriter, r *http.Request) {
	sess := sessionFromContext(r)

	sess.Cart.Clear()
	respondWithJSON(w, http.StatusOK, sess.Cart.Snapshot())
}

// CheckoutResponse is the checkout wire shape: either the created order
// or a field-to-message validation map.
type CheckoutResponse struct {
	Success bool              `json:"success"`
	Message string            `json:"message,omitempty"`
	Order   *models.Order     `json:"order,omitempty"`
	Errors  map[string]string `json:"errors,omitempty"`
}

func (h *Handler) SubmitCheckout(w http.ResponseWriter, r *http.Request) {
	sess := sessionFromContext(r)

	var req checkout.Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	order, fieldErrs, err := sess.Checkout.Submit(req)
	if errors.Is(err, checkout.ErrEmptyCart) {
		respondWithJSON(w, http.StatusConflict, CheckoutResponse{
			Success: false,
			Message: "Корзина пуста",
		})
		return
	}
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Не удалось оформить заказ")
		return
	}
	if len(fieldErrs) > 0 {
		respondWithJSON(w, http.StatusUnprocessableEntity, CheckoutResponse{
			Success: false,
			Errors:  fieldErrs,
		})
		return
	}

	respondWithJSON(w, http.StatusCreated, CheckoutResponse{
		Success: true,
		Order:   order,
	})
}

func (h *Handler) ListOrders(w http.ResponseWriter, r *http.Request) {
	sess := sessionFromContext(r)
	respondWithJSON(w, http.StatusOK, sess.Orders.List())
}

func (h *Handler) GetOrder(w http.ResponseWriter, r *http.Request) {
	sess := sessionFromContext(r)

	order, ok := sess.Orders.Get(mux.Vars(r)["id"])
	if !ok {
		respondWithError(w, http.StatusNotFound, "Заказ не найден")
		return
	}
	respondWithJSON(w, http.StatusOK, order)
}

type statusRequest struct {
	Status string `json:"status"`
}

// UpdateOrderStatus is the hook for the fulfillment side; the storefront
// itself never drives these transitions.
func (h *Handler) UpdateOrderStatus(w http.ResponseWriter, r *http.Request) {
	sess := sessionFromContext(r)

	var req statusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	order, err := sess.Orders.UpdateStatus(mux.Vars(r)["id"], req.Status)
	switch {
	case errors.Is(err, orders.ErrOrderNotFound):
		respondWithError(w, http.StatusNotFound, "Заказ не найден")
		return
	case errors.Is(err, orders.ErrUnknownStatus):
		respondWithError(w, http.StatusBadRequest, "Unknown order status")
		return
	case errors.Is(err, orders.ErrInvalidTransition):
		respondWithError(w, http.StatusConflict, "Invalid status transition")
		return
	}
	respondWithJSON(w, http.StatusOK, order)
}

func (h *Handler) GetLoyalty(w http.ResponseWriter, r *http.Request) {
	sess := sessionFromContext(r)
	respondWithJSON(w, http.StatusOK, sess.Loyalty.Account())
}

type spendRequest struct {
	Points      int64  `json:"points"`
	Description string `json:"description"`
}

// SpendResponse reports a spend attempt. Insufficient balance is a
// failure result, not an error.
type SpendResponse struct {
	Success bool                       `json:"success"`
	Message string                     `json:"message,omitempty"`
	Balance int64                      `json:"balance"`
	Tx      *models.LoyaltyTransaction `json:"transaction,omitempty"`
}

func (h *Handler) SpendPoints(w http.ResponseWriter, r *http.Request) {
	sess := sessionFromContext(r)

	var req spendRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Points <= 0 {
		respondWithError(w, http.StatusBadRequest, "points must be positive")
		return
	}

	tx, ok := sess.Loyalty.SpendPoints(req.Points, req.Description)
	if !ok {
		respondWithJSON(w, http.StatusConflict, SpendResponse{
			Success: false,
			Message: "Недостаточно баллов",
			Balance: sess.Loyalty.Balance(),
		})
		return
	}
	respondWithJSON(w, http.StatusOK, SpendResponse{
		Success: true,
		Balance: sess.Loyalty.Balance(),
		Tx:      &tx,
	})
}

func (h *Handler) ListChatMessages(w http.ResponseWriter, r *http.Request) {
	sess := sessionFromContext(r)
	respondWithJSON(w, http.StatusOK, sess.Chat.Messages())
}

type chatRequest struct {
	Text   string `json:"text"`
	Sender string `json:"sender"`
}

func (h *Handler) SendChatMessage(w http.ResponseWriter, r *http.Request) {
	sess := sessionFromContext(r)

	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		respondWithError(w, http.StatusBadRequest, "text is required")
		return
	}
	sender := req.Sender
	if sender == "" {
		sender = models.ChatSenderUser
	}
	if sender != models.ChatSenderUser && sender != models.ChatSenderCafe {
		respondWithError(w, http.StatusBadRequest, "sender must be user or cafe")
		return
	}

	msg := sess.Chat.AddMessage(req.Text, sender)
	respondWithJSON(w, http.StatusCreated, msg)
}

// HostInfo exposes what the host shell provides for this session, so the
// client can decide whether to render its own back affordance.
type HostInfo struct {
	SupportsBackButton bool         `json:"supports_back_button"`
	User               *models.User `json:"user,omitempty"`
}

func (h *Handler) GetHostInfo(w http.ResponseWriter, r *http.Request) {
	sess := sessionFromContext(r)

	respondWithJSON(w, http.StatusOK, HostInfo{
		SupportsBackButton: h.bridge.SupportsBackButton(),
		User:               sess.User(),
	})
}

func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, _ := json.Marshal(payload)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(response)
}

func respondWithError(w http.ResponseWriter, code int, message string) {
	respondWithJSON(w, code, map[string]interface{}{
		"success": false,
		"message": message,
	})
}
