package session

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/coffeehouse/storefront/internal/cart"
	"github.com/coffeehouse/storefront/internal/chat"
	"github.com/coffeehouse/storefront/internal/checkout"
	"github.com/coffeehouse/storefront/internal/loyalty"
	"github.com/coffeehouse/storefront/internal/orders"
	"github.com/coffeehouse/storefront/pkg/models"
)

// Broadcaster is shared by every session's chat log and order history.
type Broadcaster interface {
	Broadcast(messageType string, data interface{}, source string)
}

// Config carries everything a fresh session's ledgers need.
type Config struct {
	DeliveryPrice         decimal.Decimal
	FreeDeliveryThreshold decimal.Decimal
	LoyaltyRules          models.LoyaltyRules
	ChatReplyDelay        time.Duration
	CheckoutDelay         time.Duration
	TTL                   time.Duration
}

// Session is one storefront visitor's state: the cart, loyalty and chat
// ledgers, the order history and the checkout flow over them. Sessions
// are independent of each other; nothing is shared or synchronized
// across them.
type Session struct {
	ID       string
	Cart     *cart.Ledger
	Loyalty  *loyalty.Ledger
	Chat     *chat.Log
	Orders   *orders.History
	Checkout *checkout.Service

	mu       sync.Mutex
	user     *models.User
	lastSeen time.Time
}

// SetUser records the host-provided identity for this session.
func (s *Session) SetUser(user *models.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = user
}

func (s *Session) User() *models.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.user
}

func (s *Session) touch() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastSeen = time.Now()
}

func (s *Session) idleSince(cutoff time.Time) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen.Before(cutoff)
}

// Manager owns all live sessions and evicts the ones nobody has touched
// within the TTL.
type Manager struct {
	mu          sync.Mutex
	cfg         Config
	logger      *logrus.Logger
	broadcaster Broadcaster
	sessions    map[string]*Session
	done        chan struct{}
}

func NewManager(cfg Config, broadcaster Broadcaster, logger *logrus.Logger) *Manager {
	return &Manager{
		cfg:         cfg,
		logger:      logger,
		broadcaster: broadcaster,
		sessions:    make(map[string]*Session),
		done:        make(chan struct{}),
	}
}

// GetOrCreate returns the session for id, creating it when unknown. An
// empty id always creates a new session with a fresh uuid.
func (m *Manager) GetOrCreate(id string) *Session {
	m.mu.Lock()
	defer m.mu.Unlock()

	if id != "" {
		if s, ok := m.sessions[id]; ok {
			s.touch()
			return s
		}
	}

	if id == "" {
		id = uuid.New().String()
	}
	s := m.newSession(id)
	m.sessions[id] = s

	m.logger.WithFields(logrus.Fields{
		"session_id":    id,
		"session_count": len(m.sessions),
	}).Info("Session created")
	return s
}

func (m *Manager) Get(id string) (*Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[id]
	if ok {
		s.touch()
	}
	return s, ok
}

func (m *Manager) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// Run sweeps idle sessions until Stop is called.
func (m *Manager) Run() {
	interval := m.cfg.TTL / 4
	if interval < time.Second {
		interval = time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			m.evictIdle()
		case <-m.done:
			return
		}
	}
}

func (m *Manager) Stop() {
	close(m.done)
}

func (m *Manager) evictIdle() {
	cutoff := time.Now().Add(-m.cfg.TTL)

	m.mu.Lock()
	var evicted []*Session
	for id, s := range m.sessions {
		if s.idleSince(cutoff) {
			delete(m.sessions, id)
			evicted = append(evicted, s)
		}
	}
	remaining := len(m.sessions)
	m.mu.Unlock()

	for _, s := range evicted {
		s.Chat.Close()
		m.logger.WithFields(logrus.Fields{
			"session_id":    s.ID,
			"session_count": remaining,
		}).Info("Idle session evicted")
	}
}

func (m *Manager) newSession(id string) *Session {
	cartLedger := cart.NewLedger(cart.Config{
		DeliveryPrice:         m.cfg.DeliveryPrice,
		FreeDeliveryThreshold: m.cfg.FreeDeliveryThreshold,
	}, m.logger)
	loyaltyLedger := loyalty.NewLedger(m.cfg.LoyaltyRules, m.logger)
	chatLog := chat.NewLog(m.cfg.ChatReplyDelay, m.broadcaster, m.logger)
	history := orders.NewHistory(m.broadcaster, m.logger)

	s := &Session{
		ID:       id,
		Cart:     cartLedger,
		Loyalty:  loyaltyLedger,
		Chat:     chatLog,
		Orders:   history,
		Checkout: checkout.NewService(cartLedger, loyaltyLedger, history, m.cfg.CheckoutDelay, m.logger),
		lastSeen: time.Now(),
	}
	return s
}
