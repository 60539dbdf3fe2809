package cart

import (
	"sync"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/coffeehouse/storefront/pkg/models"
)

// Config holds the delivery pricing rules used when totals are recomputed.
type Config struct {
	DeliveryPrice         decimal.Decimal
	FreeDeliveryThreshold decimal.Decimal
}

// Ledger owns the cart line items and delivery selection for one session.
// Every mutation goes through a method below and ends with a full
// recomputation of subtotal, delivery price and total, so the derived
// fields can never drift from the item list.
type Ledger struct {
	mu     sync.Mutex
	cfg    Config
	logger *logrus.Logger

	items           []models.CartItem
	deliveryType    models.DeliveryType
	deliveryAddress string

	subtotal      decimal.Decimal
	deliveryPrice decimal.Decimal
	total         decimal.Decimal
}

func NewLedger(cfg Config, logger *logrus.Logger) *Ledger {
	return &Ledger{
		cfg:           cfg,
		logger:        logger,
		deliveryType:  models.DeliveryTypePickup,
		subtotal:      decimal.Zero,
		deliveryPrice: decimal.Zero,
		total:         decimal.Zero,
	}
}

// AddItem puts a product into the cart. An existing line with the same
// product and the same option selection absorbs the quantity instead of
// creating a duplicate; selections are compared as maps, so the order the
// options were picked in does not matter.
func (l *Ledger) AddItem(product models.Product, quantity int, selectedOptions map[string]string) models.CartItem {
	if quantity < 1 {
		quantity = 1
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	for i := range l.items {
		if l.items[i].Product.ID == product.ID && sameSelection(l.items[i].SelectedOptions, selectedOptions) {
			l.items[i].Quantity += quantity
			l.recompute()

			l.logger.WithFields(logrus.Fields{
				"item_id":    l.items[i].ID,
				"product_id": product.ID,
				"quantity":   l.items[i].Quantity,
			}).Debug("Merged quantity into existing cart item")
			return l.items[i]
		}
	}

	item := models.CartItem{
		ID:              uuid.New().String(),
		Product:         product,
		Quantity:        quantity,
		SelectedOptions: copySelection(selectedOptions),
	}
	l.items = append(l.items, item)
	l.recompute()

	l.logger.WithFields(logrus.Fields{
		"item_id":    item.ID,
		"product_id": product.ID,
		"quantity":   quantity,
	}).Debug("Added cart item")
	return item
}

// RemoveItem drops a line item. Unknown ids are a silent no-op.
func (l *Ledger) RemoveItem(itemID string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	for i := range l.items {
		if l.items[i].ID == itemID {
			l.items = append(l.items[:i], l.items[i+1:]...)
			l.recompute()
			return
		}
	}
}

// UpdateQuantity sets a line item's quantity. A quantity of zero or less
// removes the line. Unknown ids are a silent no-op.
func (l *Ledger) UpdateQuantity(itemID string, quantity int) {
	if quantity <= 0 {
		l.RemoveItem(itemID)
		return
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	for i := range l.items {
		if l.items[i].ID == itemID {
			l.items[i].Quantity = quantity
			l.recompute()
			return
		}
	}
}

// SetDeliveryType switches between pickup and delivery and reprices the
// cart; items are untouched.
func (l *Ledger) SetDeliveryType(t models.DeliveryType) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.deliveryType = t
	l.recompute()
}

func (l *Ledger) SetDeliveryAddress(address string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.deliveryAddress = address
}

// Clear empties the cart, resets the address and zeroes all derived
// totals. The delivery type selection survives.
func (l *Ledger) Clear() {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.items = nil
	l.deliveryAddress = ""
	l.recompute()
}

// Snapshot returns a copy of the cart as of the most recently completed
// mutation. The returned items are safe to keep; later cart mutations do
// not touch them.
func (l *Ledger) Snapshot() models.Cart {
	l.mu.Lock()
	defer l.mu.Unlock()

	items := make([]models.CartItem, len(l.items))
	for i, it := range l.items {
		it.SelectedOptions = copySelection(it.SelectedOptions)
		items[i] = it
	}

	return models.Cart{
		Items:           items,
		DeliveryType:    l.deliveryType,
		DeliveryAddress: l.deliveryAddress,
		Subtotal:        l.subtotal,
		DeliveryPrice:   l.deliveryPrice,
		Total:           l.total,
	}
}

// recompute derives subtotal, delivery price and total from scratch.
// Called with the lock held after every mutation; nothing is patched
// incrementally.
func (l *Ledger) recompute() {
	l.subtotal = subtotalOf(l.items)
	l.deliveryPrice = deliveryPriceFor(l.cfg, l.deliveryType, l.subtotal)
	l.total = l.subtotal.Add(l.deliveryPrice)
}

func subtotalOf(items []models.CartItem) decimal.Decimal {
	sum := decimal.Zero
	for _, item := range items {
		line := UnitPrice(item).Mul(decimal.NewFromInt(int64(item.Quantity)))
		sum = sum.Add(line)
	}
	return sum
}

func deliveryPriceFor(cfg Config, t models.DeliveryType, subtotal decimal.Decimal) decimal.Decimal {
	if t == models.DeliveryTypePickup {
		return decimal.Zero
	}
	if subtotal.GreaterThanOrEqual(cfg.FreeDeliveryThreshold) {
		return decimal.Zero
	}
	return cfg.DeliveryPrice
}

// UnitPrice is the product base price plus the delta of every selected
// option value. A selection whose option id or value id no longer matches
// anything on the product contributes zero.
func UnitPrice(item models.CartItem) decimal.Decimal {
	price := item.Product.Price
	for optionID, valueID := range item.SelectedOptions {
		for _, opt := range item.Product.Options {
			if opt.ID != optionID {
				continue
			}
			for _, v := range opt.Values {
				if v.ID == valueID {
					price = price.Add(v.Price)
				}
			}
		}
	}
	return price
}

func sameSelection(a, b map[string]string) bool {
	if len(a) != len(b) {
		return false
	}
	for k, v := range a {
		if other, ok := b[k]; !ok || other != v {
			return false
		}
	}
	return true
}

func copySelection(m map[string]string) map[string]string {
	if len(m) == 0 {
		return nil
	}
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
