package auth

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/openshelf/openshelf/internal/catalog/model"
)

type fakeGateway struct {
	mu          sync.Mutex
	loginCalls  int
	logoutCalls int
	loginData   *model.AuthData
	loginErr    error
	registerErr error
	logoutErr   error
	block       chan struct{}
}

func (f *fakeGateway) Login(ctx context.Context, _ model.LoginRequest) (*model.AuthData, error) {
	f.mu.Lock()
	f.loginCalls++
	block := f.block
	f.mu.Unlock()
	if block != nil {
		select {
		case <-block:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return f.loginData, f.loginErr
}

func (f *fakeGateway) Register(context.Context, model.RegisterRequest) (*model.AuthData, error) {
	return f.loginData, f.registerErr
}

func (f *fakeGateway) Logout(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.logoutCalls++
	return f.logoutErr
}

func (f *fakeGateway) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.loginCalls
}

type fakeSessions struct {
	logins  []string
	logouts int
}

func (f *fakeSessions) Login(token string) { f.logins = append(f.logins, token) }
func (f *fakeSessions) Logout()            { f.logouts++ }

type fakeNav struct {
	home  int
	login int
}

func (f *fakeNav) NavigateHome()  { f.home++ }
func (f *fakeNav) NavigateLogin() { f.login++ }

func TestLoginSuccessMutatesSessionAndNavigates(t *testing.T) {
	gateway := &fakeGateway{loginData: &model.AuthData{AccessToken: "T"}}
	sessions := &fakeSessions{}
	nav := &fakeNav{}
	orch := New(gateway, sessions, nav, nil)

	orch.Login(context.Background(), "a@b.com", "pw")

	if len(sessions.logins) != 1 || sessions.logins[0] != "T" {
		t.Fatalf("expected one session login with token T, got %+v", sessions.logins)
	}
	if nav.home != 1 {
		t.Fatalf("expected one navigation home, got %d", nav.home)
	}
	loading, errMsg := orch.State()
	if loading || errMsg != "" {
		t.Fatalf("expected idle clean state, got loading=%v err=%q", loading, errMsg)
	}
}

func TestLoginMissingTokenSetsMessage(t *testing.T) {
	gateway := &fakeGateway{loginData: nil}
	sessions := &fakeSessions{}
	nav := &fakeNav{}
	orch := New(gateway, sessions, nav, nil)

	orch.Login(context.Background(), "a@b.com", "pw")

	if len(sessions.logins) != 0 || nav.home != 0 {
		t.Fatalf("expected no side effects on tokenless success")
	}
	if got := orch.ErrorMessage(); got != LoginFailedMessage {
		t.Fatalf("unexpected error message %q", got)
	}
}

func TestLoginTransportErrorSurfaced(t *testing.T) {
	gateway := &fakeGateway{loginErr: errors.New("network down")}
	orch := New(gateway, &fakeSessions{}, &fakeNav{}, nil)

	orch.Login(context.Background(), "a@b.com", "pw")

	loading, errMsg := orch.State()
	if loading {
		t.Fatalf("loading must clear on error")
	}
	if errMsg != "network down" {
		t.Fatalf("expected transport message, got %q", errMsg)
	}
}

func TestRegisterMissingTokenSetsMessage(t *testing.T) {
	orch := New(&fakeGateway{}, &fakeSessions{}, &fakeNav{}, nil)

	orch.Register(context.Background(), "Ada", "a@b.com", "pw", "pw")

	if got := orch.ErrorMessage(); got != RegisterFailedMessage {
		t.Fatalf("unexpected error message %q", got)
	}
}

func TestLogoutFailOpen(t *testing.T) {
	gateway := &fakeGateway{logoutErr: errors.New("server unreachable")}
	sessions := &fakeSessions{}
	nav := &fakeNav{}
	orch := New(gateway, sessions, nav, nil)

	orch.Logout(context.Background())

	if gateway.logoutCalls != 1 {
		t.Fatalf("expected one remote logout attempt, got %d", gateway.logoutCalls)
	}
	if sessions.logouts != 1 {
		t.Fatalf("expected session cleared exactly once, got %d", sessions.logouts)
	}
	if nav.login != 1 {
		t.Fatalf("expected one navigation to login, got %d", nav.login)
	}
	if orch.Loading() {
		t.Fatalf("loading must clear after logout")
	}
}

func TestLoginGuardsAgainstReentrancy(t *testing.T) {
	gateway := &fakeGateway{
		loginData: &model.AuthData{AccessToken: "T"},
		block:     make(chan struct{}),
	}
	sessions := &fakeSessions{}
	orch := New(gateway, sessions, &fakeNav{}, nil)

	done := make(chan struct{})
	go func() {
		orch.Login(context.Background(), "a@b.com", "pw")
		close(done)
	}()

	// Wait for the first action to enter Pending.
	deadline := time.After(2 * time.Second)
	for !orch.Loading() {
		select {
		case <-deadline:
			t.Fatalf("first login never entered pending state")
		default:
			time.Sleep(time.Millisecond)
		}
	}

	// A second invocation while pending must return without a gateway call.
	orch.Login(context.Background(), "a@b.com", "pw")
	if gateway.calls() != 1 {
		t.Fatalf("expected guarded second invocation, got %d gateway calls", gateway.calls())
	}

	close(gateway.block)
	<-done
	if len(sessions.logins) != 1 {
		t.Fatalf("expected exactly one session mutation, got %d", len(sessions.logins))
	}
}

func TestCloseSuppressesLateContinuation(t *testing.T) {
	gateway := &fakeGateway{
		loginData: &model.AuthData{AccessToken: "T"},
		block:     make(chan struct{}),
	}
	sessions := &fakeSessions{}
	nav := &fakeNav{}
	orch := New(gateway, sessions, nav, nil)

	done := make(chan struct{})
	go func() {
		orch.Login(context.Background(), "a@b.com", "pw")
		close(done)
	}()

	deadline := time.After(2 * time.Second)
	for !orch.Loading() {
		select {
		case <-deadline:
			t.Fatalf("login never entered pending state")
		default:
			time.Sleep(time.Millisecond)
		}
	}

	orch.Close()
	close(gateway.block)
	<-done

	if len(sessions.logins) != 0 || nav.home != 0 {
		t.Fatalf("continuation after Close must be a no-op")
	}
	if orch.Loading() {
		t.Fatalf("closed orchestrator must not report loading")
	}
}
