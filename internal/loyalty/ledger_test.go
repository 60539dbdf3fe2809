package loyalty

import (
	"sync"
	"testing"

	"github.com/sirupsen/logrus"

	"github.com/coffeehouse/storefront/pkg/models"
)

func newTestLedger() *Ledger {
	logger := logrus.New()
	logger.SetLevel(logrus.ErrorLevel)

	return NewLedger(models.LoyaltyRules{
		PointsPerRub:      1,
		MinOrderForPoints: 100,
	}, logger)
}

func TestAddPointsIncreasesBalanceAndRecordsTransaction(t *testing.T) {
	l := newTestLedger()

	tx := l.AddPoints(850, "Заказ #abc", "abc")

	if l.Balance() != 850 {
		t.Errorf("balance = %d, want 850", l.Balance())
	}
	if tx.Type != models.LoyaltyTxEarned {
		t.Errorf("type = %q, want earned", tx.Type)
	}
	if tx.OrderID != "abc" {
		t.Errorf("order id = %q, want abc", tx.OrderID)
	}

	account := l.Account()
	if len(account.Transactions) != 1 {
		t.Fatalf("expected 1 transaction, got %d", len(account.Transactions))
	}
}

func TestSpendPointsInsufficientBalanceChangesNothing(t *testing.T) {
	l := newTestLedger()
	l.AddPoints(100, "seed", "")

	_, ok := l.SpendPoints(150, "x")

	if ok {
		t.Fatal("expected spend to fail")
	}
	if l.Balance() != 100 {
		t.Errorf("balance = %d, want 100", l.Balance())
	}
	if got := len(l.Account().Transactions); got != 1 {
		t.Errorf("transaction count = %d, want 1", got)
	}
}

func TestSpendPointsDebitsExactly(t *testing.T) {
	l := newTestLedger()
	l.AddPoints(500, "seed", "")

	tx, ok := l.SpendPoints(120, "Скидка на заказ")

	if !ok {
		t.Fatal("expected spend to succeed")
	}
	if tx.Type != models.LoyaltyTxSpent {
		t.Errorf("type = %q, want spent", tx.Type)
	}
	if l.Balance() != 380 {
		t.Errorf("balance = %d, want 380", l.Balance())
	}
}

func TestBalanceAlwaysEqualsSignedSumOfTransactions(t *testing.T) {
	l := newTestLedger()
	l.AddPoints(300, "a", "")
	l.SpendPoints(50, "b")
	l.AddPoints(25, "c", "")
	l.SpendPoints(1000, "rejected")

	account := l.Account()
	var sum int64
	for _, tx := range account.Transactions {
		switch tx.Type {
		case models.LoyaltyTxEarned:
			sum += tx.Points
		case models.LoyaltyTxSpent:
			sum -= tx.Points
		}
	}
	if account.Balance != sum {
		t.Errorf("balance = %d, signed sum = %d", account.Balance, sum)
	}
	if account.Balance != 275 {
		t.Errorf("balance = %d, want 275", account.Balance)
	}
}

func TestAccountTransactionsNewestFirst(t *testing.T) {
	l := newTestLedger()
	l.AddPoints(10, "first", "")
	l.AddPoints(20, "second", "")

	account := l.Account()
	if account.Transactions[0].Description != "second" {
		t.Errorf("expected newest transaction first, got %q", account.Transactions[0].Description)
	}
}

func TestSpendPointsCheckAndDebitAreAtomic(t *testing.T) {
	l := newTestLedger()
	l.AddPoints(50, "seed", "")

	// 100 goroutines each try to spend one point; only 50 may succeed
	// and the balance must never go negative.
	var wg sync.WaitGroup
	results := make(chan bool, 100)
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, ok := l.SpendPoints(1, "concurrent")
			results <- ok
		}()
	}
	wg.Wait()
	close(results)

	var succeeded int
	for ok := range results {
		if ok {
			succeeded++
		}
	}
	if succeeded != 50 {
		t.Errorf("successful spends = %d, want 50", succeeded)
	}
	if l.Balance() != 0 {
		t.Errorf("balance = %d, want 0", l.Balance())
	}
}
