// Package auth orchestrates the login, registration, and logout actions,
// tracking the loading/error state the UI renders alongside them.
package auth

import (
	"context"
	"strings"
	"sync"

	"github.com/openshelf/openshelf/internal/catalog/model"
	"github.com/openshelf/openshelf/logging"
)

// User-facing messages for auth outcomes.
const (
	LoginFailedMessage    = "Login failed, please try again"
	RegisterFailedMessage = "Registering failed, please try again"
	InvalidCredentials    = "Invalid credentials"
)

// Gateway is the slice of the API client the orchestrator depends on.
type Gateway interface {
	Login(ctx context.Context, req model.LoginRequest) (*model.AuthData, error)
	Register(ctx context.Context, req model.RegisterRequest) (*model.AuthData, error)
	Logout(ctx context.Context) error
}

// Sessions is the mutation surface of the session store.
type Sessions interface {
	Login(token string)
	Logout()
}

// Navigator receives the navigation side effects of successful actions.
type Navigator interface {
	NavigateHome()
	NavigateLogin()
}

// Orchestrator runs auth actions against the gateway and exposes their
// loading/error state. One instance per owning UI; create a fresh one on
// mount and Close it on unmount.
type Orchestrator struct {
	gateway  Gateway
	sessions Sessions
	nav      Navigator
	logger   *logging.Logger

	mu      sync.Mutex
	loading bool
	errMsg  string
	closed  bool
}

// New constructs an orchestrator. logger may be nil.
func New(gateway Gateway, sessions Sessions, nav Navigator, logger *logging.Logger) *Orchestrator {
	if logger == nil {
		logger = logging.Discard()
	}
	return &Orchestrator{
		gateway:  gateway,
		sessions: sessions,
		nav:      nav,
		logger:   logger,
	}
}

// Login authenticates with the remote API. On success it installs the token
// in the session store and signals navigation home; on failure it records a
// user-facing message. All gateway errors are absorbed here.
func (o *Orchestrator) Login(ctx context.Context, email, password string) {
	if !o.begin() {
		return
	}
	defer o.endPending()

	data, err := o.gateway.Login(ctx, model.LoginRequest{Email: email, Password: password})
	if err != nil {
		o.logger.Error("Auth", "login failed", err, map[string]any{"email": email})
		o.setError(messageOrFallback(err, InvalidCredentials))
		return
	}
	if data == nil || strings.TrimSpace(data.AccessToken) == "" {
		o.setError(LoginFailedMessage)
		return
	}
	if !o.alive() {
		return
	}
	o.sessions.Login(data.AccessToken)
	o.logger.Info("Auth", "login succeeded", map[string]any{"email": email})
	o.nav.NavigateHome()
}

// Register creates an account. Token semantics and state handling mirror
// Login.
func (o *Orchestrator) Register(ctx context.Context, name, email, password, confirmation string) {
	if !o.begin() {
		return
	}
	defer o.endPending()

	data, err := o.gateway.Register(ctx, model.RegisterRequest{
		Name:                 name,
		Email:                email,
		Password:             password,
		PasswordConfirmation: confirmation,
	})
	if err != nil {
		o.logger.Error("Auth", "registration failed", err, map[string]any{"email": email})
		o.setError(messageOrFallback(err, InvalidCredentials))
		return
	}
	if data == nil || strings.TrimSpace(data.AccessToken) == "" {
		o.setError(RegisterFailedMessage)
		return
	}
	if !o.alive() {
		return
	}
	o.sessions.Login(data.AccessToken)
	o.logger.Info("Auth", "registration succeeded", map[string]any{"email": email})
	o.nav.NavigateHome()
}

// Logout awaits the remote logout attempt, then clears the local session and
// navigates to the login destination regardless of the remote outcome.
// Logout is fail-open: the user is never left locally "logged in" because
// the server call failed.
func (o *Orchestrator) Logout(ctx context.Context) {
	if !o.begin() {
		return
	}
	defer o.endPending()

	if err := o.gateway.Logout(ctx); err != nil {
		o.logger.Warn("Auth", "remote logout failed", map[string]any{"error": err.Error()})
	}
	if !o.alive() {
		return
	}
	o.sessions.Logout()
	o.nav.NavigateLogin()
}

// State returns the loading flag and current error message.
func (o *Orchestrator) State() (loading bool, errMsg string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.loading, o.errMsg
}

// Loading reports whether an action is in flight.
func (o *Orchestrator) Loading() bool {
	loading, _ := o.State()
	return loading
}

// ErrorMessage returns the last action's user-facing error, or "".
func (o *Orchestrator) ErrorMessage() string {
	_, errMsg := o.State()
	return errMsg
}

// Close marks the owning UI as gone. In-flight continuations become no-ops
// instead of writing to a discarded instance.
func (o *Orchestrator) Close() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.closed = true
	o.loading = false
}

// begin performs the guarded Idle to Pending transition. It fails when an
// action is already in flight or the instance is closed.
func (o *Orchestrator) begin() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.closed || o.loading {
		return false
	}
	o.loading = true
	o.errMsg = ""
	return true
}

func (o *Orchestrator) endPending() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.loading = false
}

func (o *Orchestrator) setError(msg string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.closed {
		return
	}
	o.errMsg = msg
}

func (o *Orchestrator) alive() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return !o.closed
}

func messageOrFallback(err error, fallback string) string {
	if err != nil {
		if msg := strings.TrimSpace(err.Error()); msg != "" {
			return msg
		}
	}
	return fallback
}
