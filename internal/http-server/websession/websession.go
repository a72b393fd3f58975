// Package websession keeps per-browser state for the web UI: flash notices
// in the scs session and the appstate of each visitor.
package websession

import (
	"context"
	"net/http"
	"time"

	"github.com/alexedwards/scs/v2"
	"github.com/google/uuid"

	"shopsearch/internal/appstate"
	"shopsearch/internal/notice"
)

const (
	keySID       = "sid"
	keyFlash     = "flash"
	keyFlashType = "flash_type"
	keyFlashAt   = "flash_at"
)

type Options struct {
	Lifetime   time.Duration
	CookieName string
	Secure     bool
}

type Manager struct {
	Sessions *scs.SessionManager
	States   *appstate.Store
	now      func() time.Time
}

func New(opts Options) *Manager {
	sm := scs.New()
	if opts.Lifetime > 0 {
		sm.Lifetime = opts.Lifetime
	}
	if opts.CookieName != "" {
		sm.Cookie.Name = opts.CookieName
	}
	sm.Cookie.HttpOnly = true
	sm.Cookie.SameSite = http.SameSiteLaxMode
	sm.Cookie.Secure = opts.Secure

	return &Manager{Sessions: sm, States: appstate.NewStore(), now: time.Now}
}

func (m *Manager) LoadAndSave(next http.Handler) http.Handler {
	return m.Sessions.LoadAndSave(next)
}

// State returns the visitor's appstate, minting a session id on first use.
func (m *Manager) State(ctx context.Context) *appstate.State {
	sid := m.Sessions.GetString(ctx, keySID)
	if sid == "" {
		sid = uuid.NewString()
		m.Sessions.Put(ctx, keySID, sid)
	}
	return m.States.For(sid)
}

func (m *Manager) Flash(ctx context.Context, n notice.Notice) {
	if n.IsZero() {
		return
	}
	created := n.Created
	if created.IsZero() {
		created = m.now()
	}
	m.Sessions.Put(ctx, keyFlash, n.Message)
	m.Sessions.Put(ctx, keyFlashType, string(n.Kind))
	m.Sessions.Put(ctx, keyFlashAt, created.Format(time.RFC3339Nano))
}

// PopFlash returns the pending notice once. A notice older than
// notice.Lifetime is dropped unseen.
func (m *Manager) PopFlash(ctx context.Context) (notice.Notice, bool) {
	msg := m.Sessions.PopString(ctx, keyFlash)
	kind := m.Sessions.PopString(ctx, keyFlashType)
	at, _ := time.Parse(time.RFC3339Nano, m.Sessions.PopString(ctx, keyFlashAt))
	if msg == "" {
		return notice.Notice{}, false
	}

	n := notice.Notice{Kind: notice.Kind(kind), Message: msg, Created: at}
	if n.Kind == "" {
		n.Kind = notice.Success
	}
	if !at.IsZero() && n.Expired(m.now()) {
		return notice.Notice{}, false
	}
	return n, true
}
