package identity

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/foodhub-app/foodhub-console/internal/shared"
)

// State is a session lifecycle state.
type State string

const (
	StateUnauthenticated State = "unauthenticated"
	StateAuthenticating  State = "authenticating"
	StateAuthenticated   State = "authenticated"
	StateRefreshing      State = "refreshing"
)

// AuthAPI is the slice of the platform API the store depends on.
type AuthAPI interface {
	Login(ctx context.Context, email, password string) (User, string, time.Time, error)
	Logout(ctx context.Context) error
	Me(ctx context.Context) (User, error)
	UpdateProfile(ctx context.Context, upd ProfileUpdate) (User, error)
}

// CredentialStore persists the bearer token and cached identity across
// process restarts.
type CredentialStore interface {
	Save(ctx context.Context, token string, user User) error
	Load(ctx context.Context) (string, *User, error)
	Clear(ctx context.Context) error
}

// Transition is a session lifecycle notification. User is set when the
// session became (or remains) authenticated and nil otherwise.
type Transition struct {
	State State
	User  *User
}

// TransitionListener observes session lifecycle transitions.
type TransitionListener func(Transition)

// Store owns the current identity and bearer credential. It is the only
// component allowed to mutate them; everyone else reads through Current
// and Token. Lifecycle changes are announced to registered listeners
// rather than calling collaborators directly, which keeps the transport
// wiring outside this package.
type Store struct {
	api    AuthAPI
	creds  CredentialStore
	logger *slog.Logger

	mu        sync.Mutex
	state     State
	user      *User
	token     string
	listeners []TransitionListener
}

// NewStore constructs an unauthenticated Store.
func NewStore(api AuthAPI, creds CredentialStore, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{
		api:    api,
		creds:  creds,
		logger: logger,
		state:  StateUnauthenticated,
	}
}

// OnTransition registers a lifecycle listener. Listeners run synchronously
// in registration order on the goroutine that caused the transition.
func (s *Store) OnTransition(fn TransitionListener) {
	if fn == nil {
		return
	}
	s.mu.Lock()
	s.listeners = append(s.listeners, fn)
	s.mu.Unlock()
}

// State returns the current lifecycle state.
func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Current returns a copy of the authenticated identity, if any.
func (s *Store) Current() (User, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.user == nil {
		return User{}, false
	}
	return *s.user, true
}

// Token returns the current bearer token, or "" when logged out.
func (s *Store) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token
}

// Login authenticates against the platform API. A login while another is
// in flight is rejected rather than coalesced; a login while already
// authenticated is rejected too, callers must log out first.
func (s *Store) Login(ctx context.Context, email, password string) (User, error) {
	s.mu.Lock()
	switch s.state {
	case StateAuthenticating, StateRefreshing:
		s.mu.Unlock()
		return User{}, shared.ErrLoginInFlight
	case StateAuthenticated:
		s.mu.Unlock()
		return User{}, shared.E(shared.KindValidationFailure, "already authenticated")
	}
	s.state = StateAuthenticating
	s.mu.Unlock()

	user, token, _, err := s.api.Login(ctx, email, password)
	if err != nil {
		s.mu.Lock()
		s.state = StateUnauthenticated
		s.mu.Unlock()
		return User{}, err
	}

	s.mu.Lock()
	s.state = StateAuthenticated
	s.user = &user
	s.token = token
	s.mu.Unlock()

	if s.creds != nil {
		if err := s.creds.Save(ctx, token, user); err != nil {
			s.logger.Warn("persist session", slog.Any("error", err))
		}
	}
	s.emit(Transition{State: StateAuthenticated, User: &user})
	return user, nil
}

// Logout tears down the session. The server call is best effort; local
// state and persisted credentials are always cleared. Idempotent.
func (s *Store) Logout(ctx context.Context) error {
	s.mu.Lock()
	token := s.token
	s.mu.Unlock()

	if token != "" {
		if err := s.api.Logout(ctx); err != nil {
			s.logger.Warn("server logout", slog.Any("error", err))
		}
	}
	s.clear(ctx)
	return nil
}

// Refresh fetches the current identity from the platform API.
//
// A 401/403 means the credential is dead: the store fails closed and
// applies full logout semantics. Any other failure fails open: the cached
// identity is kept, the session stays authenticated, and the error is
// surfaced so the UI can show a non-fatal warning.
func (s *Store) Refresh(ctx context.Context) (User, error) {
	s.mu.Lock()
	if s.state != StateAuthenticated {
		s.mu.Unlock()
		return User{}, shared.ErrNotAuthenticated
	}
	s.state = StateRefreshing
	s.mu.Unlock()

	user, err := s.api.Me(ctx)
	if err != nil {
		if shared.IsAuthorizationClass(err) {
			s.clear(ctx)
			return User{}, err
		}
		s.mu.Lock()
		// A logout may have raced the network call; a finished session
		// must not be revived by the fail-open path.
		if s.state != StateRefreshing || s.user == nil {
			s.mu.Unlock()
			return User{}, shared.ErrNotAuthenticated
		}
		s.state = StateAuthenticated
		cached := *s.user
		s.mu.Unlock()
		return cached, err
	}

	s.mu.Lock()
	if s.state != StateRefreshing || s.user == nil {
		s.mu.Unlock()
		return User{}, shared.ErrNotAuthenticated
	}
	previousTenant := s.user.RestaurantID
	s.state = StateAuthenticated
	s.user = &user
	token := s.token
	s.mu.Unlock()

	if s.creds != nil {
		if err := s.creds.Save(ctx, token, user); err != nil {
			s.logger.Warn("persist refreshed session", slog.Any("error", err))
		}
	}
	if previousTenant != user.RestaurantID {
		// Tenant affiliation moved; listeners re-scope their subscriptions.
		s.emit(Transition{State: StateAuthenticated, User: &user})
	}
	return user, nil
}

// Restore resumes a persisted session, entering Authenticated with the
// cached identity. Callers should run Refresh afterwards (typically in the
// background) so a revoked credential is detected; Refresh applies the
// usual fail-open/fail-closed rules.
func (s *Store) Restore(ctx context.Context) (bool, error) {
	if s.creds == nil {
		return false, nil
	}
	token, user, err := s.creds.Load(ctx)
	if err != nil {
		return false, err
	}
	if token == "" || user == nil {
		return false, nil
	}

	s.mu.Lock()
	if s.state != StateUnauthenticated {
		s.mu.Unlock()
		return false, nil
	}
	s.state = StateAuthenticated
	s.user = user
	s.token = token
	s.mu.Unlock()

	s.emit(Transition{State: StateAuthenticated, User: user})
	return true, nil
}

// UpdateProfile changes the authenticated user's own record and refreshes
// the cached identity.
func (s *Store) UpdateProfile(ctx context.Context, upd ProfileUpdate) (User, error) {
	s.mu.Lock()
	if s.state != StateAuthenticated {
		s.mu.Unlock()
		return User{}, shared.ErrNotAuthenticated
	}
	s.mu.Unlock()

	user, err := s.api.UpdateProfile(ctx, upd)
	if err != nil {
		if shared.IsAuthorizationClass(err) {
			s.clear(ctx)
		}
		return User{}, err
	}

	s.mu.Lock()
	s.user = &user
	token := s.token
	s.mu.Unlock()

	if s.creds != nil {
		if err := s.creds.Save(ctx, token, user); err != nil {
			s.logger.Warn("persist updated profile", slog.Any("error", err))
		}
	}
	return user, nil
}

// clear drops local and persisted session state and announces the
// unauthenticated transition, exactly once per live session.
func (s *Store) clear(ctx context.Context) {
	s.mu.Lock()
	wasLive := s.state != StateUnauthenticated || s.user != nil
	s.state = StateUnauthenticated
	s.user = nil
	s.token = ""
	s.mu.Unlock()

	if s.creds != nil {
		if err := s.creds.Clear(ctx); err != nil {
			s.logger.Warn("clear persisted session", slog.Any("error", err))
		}
	}
	if wasLive {
		s.emit(Transition{State: StateUnauthenticated})
	}
}

func (s *Store) emit(t Transition) {
	s.mu.Lock()
	listeners := make([]TransitionListener, len(s.listeners))
	copy(listeners, s.listeners)
	s.mu.Unlock()

	for _, fn := range listeners {
		fn(t)
	}
}
