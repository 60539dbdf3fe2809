package orders

import (
	"errors"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/coffeehouse/storefront/pkg/models"
)

var (
	ErrOrderNotFound     = errors.New("order not found")
	ErrUnknownStatus     = errors.New("unknown order status")
	ErrInvalidTransition = errors.New("invalid order status transition")
)

// Broadcaster pushes order events to connected clients. A nil broadcaster
// is fine.
type Broadcaster interface {
	Broadcast(messageType string, data interface{}, source string)
}

// statusRank orders the happy-path lifecycle. Cancelled sits outside the
// rank: it is reachable from any pre-terminal status.
var statusRank = map[string]int{
	models.OrderStatusPending:   0,
	models.OrderStatusConfirmed: 1,
	models.OrderStatusPreparing: 2,
	models.OrderStatusReady:     3,
	models.OrderStatusDelivered: 4,
}

// History is the per-session order list, newest first. Orders are
// immutable snapshots; the only field ever updated is the status, and
// only by the fulfillment side through UpdateStatus.
type History struct {
	mu          sync.Mutex
	logger      *logrus.Logger
	broadcaster Broadcaster

	orders []models.Order
}

func NewHistory(broadcaster Broadcaster, logger *logrus.Logger) *History {
	return &History{
		logger:      logger,
		broadcaster: broadcaster,
	}
}

// Add prepends an order to the history.
func (h *History) Add(order models.Order) {
	h.mu.Lock()
	h.orders = append([]models.Order{order}, h.orders...)
	h.mu.Unlock()

	h.logger.WithFields(logrus.Fields{
		"order_id": order.ID,
		"total":    order.Total.String(),
	}).Info("Order added to history")
}

func (h *History) List() []models.Order {
	h.mu.Lock()
	defer h.mu.Unlock()

	out := make([]models.Order, len(h.orders))
	copy(out, h.orders)
	return out
}

func (h *History) Get(orderID string) (models.Order, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for _, o := range h.orders {
		if o.ID == orderID {
			return o, true
		}
	}
	return models.Order{}, false
}

// UpdateStatus moves an order along its lifecycle: pending, confirmed,
// preparing, ready, delivered, one step at a time, with cancelled
// reachable from any status except delivered and cancelled.
func (h *History) UpdateStatus(orderID, status string) (models.Order, error) {
	if _, ok := statusRank[status]; !ok && status != models.OrderStatusCancelled {
		return models.Order{}, ErrUnknownStatus
	}

	h.mu.Lock()
	var updated *models.Order
	for i := range h.orders {
		if h.orders[i].ID != orderID {
			continue
		}
		if !canTransition(h.orders[i].Status, status) {
			h.mu.Unlock()
			return models.Order{}, ErrInvalidTransition
		}
		h.orders[i].Status = status
		updated = &h.orders[i]
		break
	}
	if updated == nil {
		h.mu.Unlock()
		return models.Order{}, ErrOrderNotFound
	}
	order := *updated
	h.mu.Unlock()

	h.logger.WithFields(logrus.Fields{
		"order_id": order.ID,
		"status":   status,
	}).Info("Order status updated")

	if h.broadcaster != nil {
		h.broadcaster.Broadcast("order_status", order, "orders")
	}
	return order, nil
}

func canTransition(from, to string) bool {
	if to == models.OrderStatusCancelled {
		return from != models.OrderStatusDelivered && from != models.OrderStatusCancelled
	}
	fromRank, ok := statusRank[from]
	if !ok {
		return false
	}
	return statusRank[to] == fromRank+1
}
