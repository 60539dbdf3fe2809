package loyalty

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/coffeehouse/storefront/pkg/models"
)

// Ledger owns a loyalty point balance and its append-only transaction
// log. The cached balance is updated under the same lock that appends the
// transaction, so it always equals the signed sum of the log.
type Ledger struct {
	mu     sync.Mutex
	logger *logrus.Logger

	balance      int64
	transactions []models.LoyaltyTransaction
	rules        models.LoyaltyRules
}

func NewLedger(rules models.LoyaltyRules, logger *logrus.Logger) *Ledger {
	return &Ledger{
		logger: logger,
		rules:  rules,
	}
}

// AddPoints credits the balance and records an earned transaction.
// orderID tags accruals produced by checkout and may be empty. Amounts
// are expected to be non-negative; the ledger does not second-guess the
// caller.
func (l *Ledger) AddPoints(points int64, description, orderID string) models.LoyaltyTransaction {
	l.mu.Lock()
	defer l.mu.Unlock()

	tx := models.LoyaltyTransaction{
		ID:          uuid.New().String(),
		Type:        models.LoyaltyTxEarned,
		Points:      points,
		Description: description,
		OrderID:     orderID,
		CreatedAt:   time.Now(),
	}
	l.transactions = append(l.transactions, tx)
	l.balance += points

	l.logger.WithFields(logrus.Fields{
		"points":   points,
		"balance":  l.balance,
		"order_id": orderID,
	}).Debug("Loyalty points earned")
	return tx
}

// SpendPoints debits the balance. It reports false and changes nothing
// when the balance is insufficient; the check and the debit happen under
// one lock, so no intermediate state is ever observable.
func (l *Ledger) SpendPoints(points int64, description string) (models.LoyaltyTransaction, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.balance < points {
		return models.LoyaltyTransaction{}, false
	}

	tx := models.LoyaltyTransaction{
		ID:          uuid.New().String(),
		Type:        models.LoyaltyTxSpent,
		Points:      points,
		Description: description,
		CreatedAt:   time.Now(),
	}
	l.transactions = append(l.transactions, tx)
	l.balance -= points

	l.logger.WithFields(logrus.Fields{
		"points":  points,
		"balance": l.balance,
	}).Debug("Loyalty points spent")
	return tx, true
}

func (l *Ledger) Balance() int64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.balance
}

// Account returns the balance, rules and transactions, newest first.
func (l *Ledger) Account() models.LoyaltyAccount {
	l.mu.Lock()
	defer l.mu.Unlock()

	txs := make([]models.LoyaltyTransaction, len(l.transactions))
	for i, tx := range l.transactions {
		txs[len(l.transactions)-1-i] = tx
	}

	return models.LoyaltyAccount{
		Balance:      l.balance,
		Transactions: txs,
		Rules:        l.rules,
	}
}
