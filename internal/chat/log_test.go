package chat

import (
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/coffeehouse/storefront/pkg/models"
)

func newTestLog(broadcaster Broadcaster) *Log {
	logger := logrus.New()
	logger.SetLevel(logrus.ErrorLevel)
	return NewLog(10*time.Millisecond, broadcaster, logger)
}

func waitForMessages(t *testing.T, l *Log, want int) []models.ChatMessage {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		msgs := l.Messages()
		if len(msgs) >= want {
			return msgs
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %d messages, have %d", want, len(l.Messages()))
	return nil
}

func TestLogSeedsWelcomeMessage(t *testing.T) {
	l := newTestLog(nil)

	msgs := l.Messages()
	if len(msgs) != 1 {
		t.Fatalf("expected 1 seeded message, got %d", len(msgs))
	}
	if msgs[0].Sender != models.ChatSenderCafe {
		t.Errorf("welcome sender = %q, want cafe", msgs[0].Sender)
	}
}

func TestUserMessageGetsExactlyOneCannedReply(t *testing.T) {
	l := newTestLog(nil)

	l.AddMessage("Когда вы открыты?", models.ChatSenderUser)

	// welcome + user message + one auto-reply
	msgs := waitForMessages(t, l, 3)

	// give a second reply a chance to show up if one was wrongly scheduled
	time.Sleep(50 * time.Millisecond)
	msgs = l.Messages()
	if len(msgs) != 3 {
		t.Fatalf("expected exactly 3 messages, got %d", len(msgs))
	}

	reply := msgs[2]
	if reply.Sender != models.ChatSenderCafe {
		t.Errorf("reply sender = %q, want cafe", reply.Sender)
	}
	var canned bool
	for _, s := range autoReplies {
		if reply.Text == s {
			canned = true
		}
	}
	if !canned {
		t.Errorf("reply %q is not one of the canned strings", reply.Text)
	}
}

func TestCafeMessageDoesNotTriggerReply(t *testing.T) {
	l := newTestLog(nil)

	l.AddMessage("Ваш заказ готов", models.ChatSenderCafe)

	time.Sleep(50 * time.Millisecond)
	if got := len(l.Messages()); got != 2 {
		t.Errorf("expected 2 messages, got %d", got)
	}
}

func TestCloseCancelsPendingReplies(t *testing.T) {
	l := newTestLog(nil)

	l.AddMessage("привет", models.ChatSenderUser)
	l.Close()

	time.Sleep(50 * time.Millisecond)
	if got := len(l.Messages()); got != 2 {
		t.Errorf("expected no auto-reply after Close, got %d messages", got)
	}
}

type recordingBroadcaster struct {
	mu    sync.Mutex
	types []string
}

func (b *recordingBroadcaster) Broadcast(messageType string, data interface{}, source string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.types = append(b.types, messageType)
}

func TestMessagesAreBroadcast(t *testing.T) {
	b := &recordingBroadcaster{}
	l := newTestLog(b)

	l.AddMessage("привет", models.ChatSenderUser)
	waitForMessages(t, l, 3)

	b.mu.Lock()
	defer b.mu.Unlock()
	if len(b.types) != 2 {
		t.Fatalf("expected 2 broadcasts (user message + reply), got %d", len(b.types))
	}
	for _, typ := range b.types {
		if typ != "chat_message" {
			t.Errorf("broadcast type = %q, want chat_message", typ)
		}
	}
}
