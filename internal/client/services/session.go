package services

import (
	"context"
	"sync"

	"github.com/dmitrijs2005/dirkeeper/internal/client/client"
	"github.com/dmitrijs2005/dirkeeper/internal/client/events"
	"github.com/dmitrijs2005/dirkeeper/internal/client/store"
	"github.com/dmitrijs2005/dirkeeper/internal/logging"
)

// DefaultLoginMessage is shown when a login fails without a server message.
const DefaultLoginMessage = "Login failed"

// TokenRepository persists the session token between runs.
// *metadata.TokenStore satisfies it.
type TokenRepository interface {
	Load(ctx context.Context) (string, error)
	Save(ctx context.Context, token string) error
	Clear(ctx context.Context) error
}

// LoadPersistedToken reads the token once at startup. A storage error is
// logged and treated as no token.
func LoadPersistedToken(ctx context.Context, repo TokenRepository, log logging.Logger) string {
	token, err := repo.Load(ctx)
	if err != nil {
		log.Warn(ctx, "cannot read persisted token, starting signed out", "error", err)
		return ""
	}
	return token
}

// SessionService drives the session state machine.
type SessionService struct {
	client client.Client
	tokens TokenRepository
	log    logging.Logger

	mu        sync.Mutex
	state     store.SessionState
	listeners listeners[store.SessionState]

	unsubscribe func()
}

// NewSessionService starts from initialToken and, when broker is not nil,
// reacts to SessionExpired by dropping the token.
func NewSessionService(c client.Client, tokens TokenRepository, initialToken string, broker *events.Broker, log logging.Logger) *SessionService {
	s := &SessionService{
		client: c,
		tokens: tokens,
		log:    log.With("module", "session"),
		state:  store.InitialSession(initialToken),
	}
	if broker != nil {
		s.unsubscribe = broker.Subscribe(s.onExpired)
	}
	return s
}

// Token returns the held token; it lets the service act as the client's
// client.TokenSource.
func (s *SessionService) Token() string {
	return s.State().Token
}

func (s *SessionService) State() store.SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Subscribe registers fn to receive every new state.
func (s *SessionService) Subscribe(fn func(store.SessionState)) (unsubscribe func()) {
	return s.listeners.add(fn)
}

// Login authenticates. Concurrent logins are not coalesced; the last to
// complete decides the state.
func (s *SessionService) Login(ctx context.Context, email, password string) error {
	s.dispatch(store.LoginStarted{})

	token, err := s.client.Authenticate(ctx, email, password)
	if err != nil {
		s.log.Warn(ctx, "login failed", "email", email, "error", err)
		s.dispatch(store.LoginFailed{Message: client.MessageOr(err, DefaultLoginMessage)})
		// the state is Anonymous now; a token saved by an overlapping
		// login must not sign the next run in
		if cerr := s.tokens.Clear(ctx); cerr != nil {
			s.log.Error(ctx, "cannot clear persisted token", "error", cerr)
		}
		return err
	}

	if err := s.tokens.Save(ctx, token); err != nil {
		// the session still works for this run
		s.log.Error(ctx, "cannot persist token", "error", err)
	}
	s.dispatch(store.LoginSucceeded{Token: token})
	s.log.Info(ctx, "signed in", "email", email)
	return nil
}

// Logout signs out locally. The state is reset even when clearing the
// persisted token fails; that error is returned.
func (s *SessionService) Logout(ctx context.Context) error {
	s.dispatch(store.LoggedOut{})
	if err := s.tokens.Clear(ctx); err != nil {
		s.log.Error(ctx, "cannot clear persisted token", "error", err)
		return err
	}
	s.log.Info(ctx, "signed out")
	return nil
}

func (s *SessionService) ClearError() {
	s.dispatch(store.SessionErrorCleared{})
}

// Close stops listening for expiry signals.
func (s *SessionService) Close() {
	if s.unsubscribe != nil {
		s.unsubscribe()
	}
}

// onExpired drops the session only when the rejected request carried the
// token held now; a rejection of an older token is ignored.
func (s *SessionService) onExpired(ev events.SessionExpired) {
	ctx := context.Background()

	s.mu.Lock()
	if s.state.Token != ev.Token {
		s.mu.Unlock()
		s.log.Debug(ctx, "ignoring expiry of a replaced token", "operation", ev.Operation)
		return
	}
	s.state = store.ReduceSession(s.state, store.SessionExpired{})
	snapshot := s.state
	s.mu.Unlock()

	s.log.Warn(ctx, "session expired", "operation", ev.Operation)
	if err := s.tokens.Clear(ctx); err != nil {
		s.log.Error(ctx, "cannot clear persisted token", "error", err)
	}
	s.listeners.notify(snapshot)
}

func (s *SessionService) dispatch(ev store.SessionEvent) {
	s.mu.Lock()
	s.state = store.ReduceSession(s.state, ev)
	snapshot := s.state
	s.mu.Unlock()

	s.listeners.notify(snapshot)
}
