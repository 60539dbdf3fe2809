package telegram

import (
	"encoding/json"
	"net/url"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/coffeehouse/storefront/pkg/models"
)

// Bridge is the capability surface of the host shell the storefront may
// run inside. The core never detects the host directly; it asks the
// bridge and falls back to standalone behavior when a capability is
// missing.
type Bridge interface {
	// SupportsBackButton reports whether the host renders a native
	// back affordance the client should rely on.
	SupportsBackButton() bool
	// CurrentUser resolves the host-provided identity from the init
	// payload the client forwarded. ok is false when the payload is
	// absent or unreadable.
	CurrentUser(initData string) (user *models.User, ok bool)
}

// NoopBridge is the standalone default: no back button, no user.
type NoopBridge struct{}

func (NoopBridge) SupportsBackButton() bool { return false }

func (NoopBridge) CurrentUser(string) (*models.User, bool) { return nil, false }

// WebAppBridge reads the Telegram WebApp init payload, a query-string
// whose "user" field carries a JSON object. Payload signatures are not
// checked; the storefront has no authentication.
type WebAppBridge struct {
	logger *logrus.Logger
}

func NewWebAppBridge(logger *logrus.Logger) *WebAppBridge {
	return &WebAppBridge{logger: logger}
}

func (b *WebAppBridge) SupportsBackButton() bool { return true }

type webAppUser struct {
	ID        int64  `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	PhotoURL  string `json:"photo_url"`
}

func (b *WebAppBridge) CurrentUser(initData string) (*models.User, bool) {
	if initData == "" {
		return nil, false
	}

	values, err := url.ParseQuery(initData)
	if err != nil {
		b.logger.WithError(err).Debug("Unreadable init data")
		return nil, false
	}
	raw := values.Get("user")
	if raw == "" {
		return nil, false
	}

	var u webAppUser
	if err := json.Unmarshal([]byte(raw), &u); err != nil {
		b.logger.WithError(err).Debug("Unreadable init data user field")
		return nil, false
	}
	if u.ID == 0 {
		return nil, false
	}

	name := strings.TrimSpace(u.FirstName + " " + u.LastName)
	return &models.User{
		ID:     strconv.FormatInt(u.ID, 10),
		Name:   name,
		Avatar: u.PhotoURL,
	}, true
}
