package telegram

import (
	"net/url"
	"testing"

	"github.com/sirupsen/logrus"
)

func newTestBridge() *WebAppBridge {
	logger := logrus.New()
	logger.SetLevel(logrus.ErrorLevel)
	return NewWebAppBridge(logger)
}

func TestWebAppBridgeParsesUser(t *testing.T) {
	b := newTestBridge()

	initData := url.Values{
		"user":      {`{"id":42,"first_name":"Анна","last_name":"Каренина","photo_url":"https://t.me/a.jpg"}`},
		"auth_date": {"1700000000"},
	}.Encode()

	user, ok := b.CurrentUser(initData)
	if !ok {
		t.Fatal("expected user")
	}
	if user.ID != "42" {
		t.Errorf("id = %q, want 42", user.ID)
	}
	if user.Name != "Анна Каренина" {
		t.Errorf("name = %q", user.Name)
	}
	if user.Avatar != "https://t.me/a.jpg" {
		t.Errorf("avatar = %q", user.Avatar)
	}
}

func TestWebAppBridgeTrimsMissingLastName(t *testing.T) {
	b := newTestBridge()

	user, ok := b.CurrentUser(url.Values{"user": {`{"id":7,"first_name":"Анна"}`}}.Encode())
	if !ok {
		t.Fatal("expected user")
	}
	if user.Name != "Анна" {
		t.Errorf("name = %q, want no trailing space", user.Name)
	}
}

func TestWebAppBridgeDegradesGracefully(t *testing.T) {
	b := newTestBridge()

	for _, initData := range []string{
		"",
		"%zz",
		"auth_date=1700000000",
		url.Values{"user": {"not json"}}.Encode(),
		url.Values{"user": {`{"first_name":"nobody"}`}}.Encode(),
	} {
		if _, ok := b.CurrentUser(initData); ok {
			t.Errorf("CurrentUser(%q): expected no user", initData)
		}
	}
}

func TestNoopBridge(t *testing.T) {
	var b Bridge = NoopBridge{}

	if b.SupportsBackButton() {
		t.Error("noop bridge should not claim a back button")
	}
	if _, ok := b.CurrentUser("anything"); ok {
		t.Error("noop bridge should never resolve a user")
	}
}
