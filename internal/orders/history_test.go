package orders

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/coffeehouse/storefront/pkg/models"
)

func newTestHistory() *History {
	logger := logrus.New()
	logger.SetLevel(logrus.ErrorLevel)
	return NewHistory(nil, logger)
}

func testOrder(id string) models.Order {
	return models.Order{
		ID:       id,
		Status:   models.OrderStatusPending,
		Subtotal: decimal.NewFromInt(850),
		Total:    decimal.NewFromInt(850),
	}
}

func TestListNewestFirst(t *testing.T) {
	h := newTestHistory()
	h.Add(testOrder("a"))
	h.Add(testOrder("b"))

	got := h.List()
	if len(got) != 2 {
		t.Fatalf("expected 2 orders, got %d", len(got))
	}
	if got[0].ID != "b" || got[1].ID != "a" {
		t.Errorf("expected newest first, got %s, %s", got[0].ID, got[1].ID)
	}
}

func TestGetMissingOrder(t *testing.T) {
	h := newTestHistory()
	if _, ok := h.Get("nope"); ok {
		t.Error("expected lookup miss")
	}
}

func TestStatusHappyPath(t *testing.T) {
	h := newTestHistory()
	h.Add(testOrder("a"))

	for _, status := range []string{
		models.OrderStatusConfirmed,
		models.OrderStatusPreparing,
		models.OrderStatusReady,
		models.OrderStatusDelivered,
	} {
		order, err := h.UpdateStatus("a", status)
		if err != nil {
			t.Fatalf("transition to %s: %v", status, err)
		}
		if order.Status != status {
			t.Errorf("status = %q, want %q", order.Status, status)
		}
	}
}

func TestStatusCannotSkipSteps(t *testing.T) {
	h := newTestHistory()
	h.Add(testOrder("a"))

	if _, err := h.UpdateStatus("a", models.OrderStatusReady); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("expected ErrInvalidTransition, got %v", err)
	}
}

func TestCancelledReachableFromPreTerminalOnly(t *testing.T) {
	h := newTestHistory()
	h.Add(testOrder("a"))

	if _, err := h.UpdateStatus("a", models.OrderStatusCancelled); err != nil {
		t.Fatalf("cancel from pending: %v", err)
	}
	if _, err := h.UpdateStatus("a", models.OrderStatusCancelled); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("cancel from cancelled: expected ErrInvalidTransition, got %v", err)
	}

	h.Add(testOrder("b"))
	for _, status := range []string{
		models.OrderStatusConfirmed,
		models.OrderStatusPreparing,
		models.OrderStatusReady,
		models.OrderStatusDelivered,
	} {
		if _, err := h.UpdateStatus("b", status); err != nil {
			t.Fatalf("transition to %s: %v", status, err)
		}
	}
	if _, err := h.UpdateStatus("b", models.OrderStatusCancelled); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("cancel from delivered: expected ErrInvalidTransition, got %v", err)
	}
}

func TestUpdateStatusErrors(t *testing.T) {
	h := newTestHistory()
	h.Add(testOrder("a"))

	if _, err := h.UpdateStatus("a", "shipped-to-mars"); !errors.Is(err, ErrUnknownStatus) {
		t.Errorf("expected ErrUnknownStatus, got %v", err)
	}
	if _, err := h.UpdateStatus("nope", models.OrderStatusConfirmed); !errors.Is(err, ErrOrderNotFound) {
		t.Errorf("expected ErrOrderNotFound, got %v", err)
	}
}
