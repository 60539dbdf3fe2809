package checkout

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/coffeehouse/storefront/internal/cart"
	"github.com/coffeehouse/storefront/internal/loyalty"
	"github.com/coffeehouse/storefront/internal/orders"
	"github.com/coffeehouse/storefront/pkg/models"
)

// ErrEmptyCart is returned when checkout is submitted with nothing in
// the cart.
var ErrEmptyCart = errors.New("cart is empty")

// FieldErrors maps a form field to its validation message. A non-empty
// map means the submission was rejected with no side effects.
type FieldErrors map[string]string

// Request carries the checkout form. DeliveryAddress is optional and,
// when set, is written to the cart before validation, mirroring the form
// keeping the cart's address in sync while the user types.
type Request struct {
	ContactName     string `json:"contact_name"`
	ContactPhone    string `json:"contact_phone"`
	PaymentMethod   string `json:"payment_method"`
	DeliveryAddress string `json:"delivery_address,omitempty"`
}

// Service turns the current cart into an immutable order. It owns no
// state of its own; it orchestrates the cart ledger, the loyalty ledger
// and the order history of one session.
type Service struct {
	cart    *cart.Ledger
	loyalty *loyalty.Ledger
	history *orders.History
	logger  *logrus.Logger

	// simulated payment-gateway latency, zero in tests
	processingDelay time.Duration
}

func NewService(cartLedger *cart.Ledger, loyaltyLedger *loyalty.Ledger, history *orders.History, processingDelay time.Duration, logger *logrus.Logger) *Service {
	return &Service{
		cart:            cartLedger,
		loyalty:         loyaltyLedger,
		history:         history,
		logger:          logger,
		processingDelay: processingDelay,
	}
}

// Submit validates the form and, on success, snapshots the cart into an
// order, credits loyalty points tagged with the new order id, records the
// order and clears the cart — in that sequence, so the snapshot is taken
// before anything is cleared. On validation failure it returns the field
// map and performs no side effects at all.
func (s *Service) Submit(req Request) (*models.Order, FieldErrors, error) {
	if req.DeliveryAddress != "" {
		s.cart.SetDeliveryAddress(req.DeliveryAddress)
	}

	snapshot := s.cart.Snapshot()
	if len(snapshot.Items) == 0 {
		return nil, nil, ErrEmptyCart
	}

	if fieldErrs := validate(req, snapshot); len(fieldErrs) > 0 {
		s.logger.WithField("fields", len(fieldErrs)).Debug("Checkout validation failed")
		return nil, fieldErrs, nil
	}

	if s.processingDelay > 0 {
		time.Sleep(s.processingDelay)
	}

	order := models.Order{
		ID:            uuid.New().String(),
		Items:         snapshot.Items,
		DeliveryType:  snapshot.DeliveryType,
		ContactName:   strings.TrimSpace(req.ContactName),
		ContactPhone:  NormalizePhone(req.ContactPhone),
		PaymentMethod: paymentMethodOrDefault(req.PaymentMethod),
		Subtotal:      snapshot.Subtotal,
		DeliveryPrice: snapshot.DeliveryPrice,
		Total:         snapshot.Total,
		Status:        models.OrderStatusPending,
		CreatedAt:     time.Now(),
	}
	if snapshot.DeliveryType == models.DeliveryTypeDelivery {
		order.DeliveryAddress = snapshot.DeliveryAddress
	}

	if points := snapshot.Subtotal.Floor().IntPart(); points > 0 {
		s.loyalty.AddPoints(points, fmt.Sprintf("Заказ #%s", order.ID), order.ID)
		order.LoyaltyPointsEarned = points
	}

	s.history.Add(order)
	s.cart.Clear()

	s.logger.WithFields(logrus.Fields{
		"order_id":       order.ID,
		"total":          order.Total.String(),
		"points_earned":  order.LoyaltyPointsEarned,
		"delivery_type":  order.DeliveryType,
		"payment_method": order.PaymentMethod,
	}).Info("Order placed")

	return &order, nil, nil
}

func validate(req Request, snapshot models.Cart) FieldErrors {
	errs := FieldErrors{}

	if strings.TrimSpace(req.ContactName) == "" {
		errs["contact_name"] = "Введите ваше имя"
	}
	if strings.TrimSpace(req.ContactPhone) == "" {
		errs["contact_phone"] = "Введите номер телефона"
	} else if !ValidPhone(req.ContactPhone) {
		errs["contact_phone"] = "Введите корректный номер телефона"
	}
	if snapshot.DeliveryType == models.DeliveryTypeDelivery && strings.TrimSpace(snapshot.DeliveryAddress) == "" {
		errs["delivery_address"] = "Введите адрес доставки"
	}

	if len(errs) == 0 {
		return nil
	}
	return errs
}

func paymentMethodOrDefault(method string) string {
	if method == models.PaymentMethodOnline {
		return models.PaymentMethodOnline
	}
	return models.PaymentMethodCash
}
