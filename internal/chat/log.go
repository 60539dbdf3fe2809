package chat

import (
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/coffeehouse/storefront/pkg/models"
)

// Broadcaster pushes chat events to connected clients. The WebSocket hub
// satisfies this; a nil broadcaster is fine.
type Broadcaster interface {
	Broadcast(messageType string, data interface{}, source string)
}

const welcomeText = "Добро пожаловать в Coffee House! Чем могу помочь?"

var autoReplies = []string{
	"Спасибо за сообщение! Мы обязательно ответим в ближайшее время.",
	"Понял, передам информацию нашим сотрудникам.",
	"Отлично! Будем рады помочь.",
}

// Log is an append-only chat message list with a scripted support
// auto-reply. Every user message schedules exactly one canned reply from
// the cafe after a fixed delay. This is a cosmetic simulation, not a
// messaging system.
type Log struct {
	mu          sync.Mutex
	logger      *logrus.Logger
	broadcaster Broadcaster
	replyDelay  time.Duration

	messages []models.ChatMessage
	timers   []*time.Timer
	closed   bool
}

func NewLog(replyDelay time.Duration, broadcaster Broadcaster, logger *logrus.Logger) *Log {
	l := &Log{
		logger:      logger,
		broadcaster: broadcaster,
		replyDelay:  replyDelay,
	}
	l.messages = append(l.messages, models.ChatMessage{
		ID:        uuid.New().String(),
		Text:      welcomeText,
		Sender:    models.ChatSenderCafe,
		Timestamp: time.Now().Add(-time.Hour),
	})
	return l
}

// AddMessage appends a message. A message from the user schedules one
// auto-reply; the timer is fire-and-forget and a reply landing after the
// user has moved on is accepted behavior.
func (l *Log) AddMessage(text, sender string) models.ChatMessage {
	l.mu.Lock()
	msg := l.appendLocked(text, sender)
	if sender == models.ChatSenderUser && !l.closed {
		reply := autoReplies[rand.Intn(len(autoReplies))]
		l.timers = append(l.timers, time.AfterFunc(l.replyDelay, func() {
			l.reply(reply)
		}))
	}
	l.mu.Unlock()

	l.publish(msg)
	return msg
}

// Messages returns a copy of the log in append order.
func (l *Log) Messages() []models.ChatMessage {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make([]models.ChatMessage, len(l.messages))
	copy(out, l.messages)
	return out
}

// Close cancels pending auto-replies. Purely a teardown nicety.
func (l *Log) Close() {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.closed = true
	for _, timer := range l.timers {
		timer.Stop()
	}
	l.timers = nil
}

func (l *Log) reply(text string) {
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return
	}
	msg := l.appendLocked(text, models.ChatSenderCafe)
	l.mu.Unlock()

	l.logger.WithField("message_id", msg.ID).Debug("Chat auto-reply sent")
	l.publish(msg)
}

func (l *Log) appendLocked(text, sender string) models.ChatMessage {
	msg := models.ChatMessage{
		ID:        uuid.New().String(),
		Text:      text,
		Sender:    sender,
		Timestamp: time.Now(),
	}
	l.messages = append(l.messages, msg)
	return msg
}

func (l *Log) publish(msg models.ChatMessage) {
	if l.broadcaster != nil {
		l.broadcaster.Broadcast("chat_message", msg, "chat")
	}
}
