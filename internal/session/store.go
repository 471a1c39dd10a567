// Package session owns "who is logged in": the current user, the loading
// flag, and the persisted snapshot that lets a session survive reloads.
//
// A Store is built once per client (one per browser cookie session in the
// dashboard, one per process in clinicctl) and initialised once.
// Mutating operations run one at a time, in arrival order.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"golang.org/x/sync/semaphore"

	"altheia/internal/apiclient"
	"altheia/internal/logger"
	"altheia/internal/models"
)

var (
	ErrCorruptSnapshot = errors.New("corrupt session snapshot")
	ErrIncompleteUser  = errors.New("login response carries no usable user")
)

// Authenticator is the slice of the API client the Store needs.
type Authenticator interface {
	Login(ctx context.Context, req apiclient.LoginRequest) (*apiclient.LoginResponse, error)
	VerifySession(ctx context.Context) (*apiclient.VerifyResponse, error)
	Logout(ctx context.Context) error
}

type Store struct {
	auth    Authenticator
	storage Storage
	log     *slog.Logger
	observe func(models.Session)

	// queue admits one mutating operation at a time.
	queue *semaphore.Weighted

	mu          sync.RWMutex
	user        *models.User
	token       string
	loading     bool
	initialized bool
}

type Option func(*Store)

func WithLogger(l *slog.Logger) Option {
	return func(s *Store) { s.log = l }
}

// WithObserver registers fn to be called after every change of the
// (user, loading) pair. fn runs without the Store's lock held.
func WithObserver(fn func(models.Session)) Option {
	return func(s *Store) { s.observe = fn }
}

// NewStore returns an unresolved Store: no user, loading until Initialize
// has run.
func NewStore(auth Authenticator, storage Storage, opts ...Option) *Store {
	s := &Store{
		auth:    auth,
		storage: storage,
		log:     logger.Discard(),
		queue:   semaphore.NewWeighted(1),
		loading: true,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store) User() *models.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return nil
	}
	u := *s.user
	return &u
}

func (s *Store) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

func (s *Store) Authenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user != nil
}

// State returns a consistent snapshot of the (user, loading) pair.
func (s *Store) State() models.Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	state := models.Session{Loading: s.loading}
	if s.user != nil {
		u := *s.user
		state.User = &u
	}
	return state
}

// Context attaches the session's credentials so API calls made with the
// returned context are authenticated.
func (s *Store) Context(ctx context.Context) context.Context {
	s.mu.RLock()
	token := s.token
	s.mu.RUnlock()
	return apiclient.WithToken(ctx, token)
}

// Initialize restores the persisted snapshot or, when there is none, asks
// the API whether a session exists. A restored snapshot is trusted without
// a network call. A failed verification clears storage and leaves the Store
// logged out. It is not returned; the only error is ctx ending before
// Initialize could run. Calls after the first are no-ops.
func (s *Store) Initialize(ctx context.Context) error {
	if err := s.queue.Acquire(ctx, 1); err != nil {
		return err
	}
	defer s.queue.Release(1)

	s.mu.Lock()
	if s.initialized {
		s.mu.Unlock()
		return nil
	}
	s.initialized = true
	s.mu.Unlock()

	token, _ := s.storage.Get(KeyAccessToken)

	if raw, ok := s.storage.Get(KeyUser); ok {
		user, err := decodeUser(raw)
		if err == nil {
			s.set(user, token, false)
			s.log.DebugContext(ctx, "session restored", "user_id", user.ID)
			return nil
		}

		s.log.WarnContext(ctx, "discarding session snapshot", "error", err)
		if err := s.remove(KeyUser); err != nil {
			s.log.WarnContext(ctx, "remove session snapshot", "error", err)
		}
	}

	s.setLoading(true)
	defer s.setLoading(false)

	resp, err := s.auth.VerifySession(apiclient.WithToken(ctx, token))
	if err != nil {
		s.log.DebugContext(ctx, "no session", "error", err)
		s.discard(ctx)
		return nil
	}
	if !resp.IsValid || !resp.UserInfo.Complete() {
		s.discard(ctx)
		return nil
	}

	if resp.Token != "" {
		token = resp.Token
	}
	if err := s.adopt(resp.UserInfo, token); err != nil {
		s.log.WarnContext(ctx, "persist verified session", "error", err)
	}

	return nil
}

// Login authenticates against the API and adopts the returned user. On
// failure the error is returned and the session is left as it was.
func (s *Store) Login(ctx context.Context, email, password string) (*models.User, error) {
	if err := s.queue.Acquire(ctx, 1); err != nil {
		return nil, err
	}
	defer s.queue.Release(1)

	s.setLoading(true)
	defer s.setLoading(false)

	resp, err := s.auth.Login(ctx, apiclient.LoginRequest{
		Email:    strings.TrimSpace(email),
		Password: password,
	})
	if err != nil {
		return nil, err
	}

	user := resp.User
	if !user.Complete() {
		return nil, ErrIncompleteUser
	}

	if err := s.adopt(&user, resp.AccessToken); err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.initialized = true
	s.mu.Unlock()

	return s.User(), nil
}

// Logout ends the session remotely and locally. Local state and storage are
// cleared even when the API call fails; that failure is still returned.
// Without a session there is nothing to end and no call is made.
func (s *Store) Logout(ctx context.Context) error {
	if err := s.queue.Acquire(ctx, 1); err != nil {
		return err
	}
	defer s.queue.Release(1)

	s.setLoading(true)
	defer s.setLoading(false)

	s.mu.RLock()
	user, token := s.user, s.token
	s.mu.RUnlock()

	var remoteErr error
	if user != nil || token != "" {
		remoteErr = s.auth.Logout(apiclient.WithToken(ctx, token))
	}

	return errors.Join(remoteErr, s.clear())
}

// Replace swaps the held user for an updated record of the same account,
// e.g. after a profile update.
func (s *Store) Replace(ctx context.Context, user *models.User) error {
	if !user.Complete() {
		return ErrIncompleteUser
	}

	if err := s.queue.Acquire(ctx, 1); err != nil {
		return err
	}
	defer s.queue.Release(1)

	s.mu.RLock()
	current, token := s.user, s.token
	s.mu.RUnlock()

	if current == nil {
		return errors.New("no session to update")
	}
	if current.ID != user.ID {
		return fmt.Errorf("user %s cannot replace session of %s", user.ID, current.ID)
	}

	return s.adopt(user, token)
}

// adopt makes user the session user and persists the change. Identical
// re-adoption writes nothing. If persisting fails the previous state is
// put back.
func (s *Store) adopt(user *models.User, token string) error {
	s.mu.RLock()
	prevUser, prevToken := s.user, s.token
	s.mu.RUnlock()

	if prevUser.Equal(user) && prevToken == token {
		return nil
	}

	raw, err := encodeUser(user)
	if err != nil {
		return err
	}

	persist := func() error {
		if !prevUser.Equal(user) {
			if err := s.storage.Set(KeyUser, raw); err != nil {
				return err
			}
		}
		if token != prevToken {
			if token == "" {
				if err := s.storage.Delete(KeyAccessToken); err != nil {
					return err
				}
			} else if err := s.storage.Set(KeyAccessToken, token); err != nil {
				return err
			}
		}
		return s.flush()
	}

	if err := persist(); err != nil {
		s.restore(prevUser, prevToken)
		return fmt.Errorf("persist session: %w", err)
	}

	s.set(user, token, s.Loading())
	return nil
}

// restore best-effort rewrites storage to match the previous state.
func (s *Store) restore(user *models.User, token string) {
	if user == nil {
		_ = s.storage.Delete(KeyUser)
	} else if raw, err := encodeUser(user); err == nil {
		_ = s.storage.Set(KeyUser, raw)
	}
	if token == "" {
		_ = s.storage.Delete(KeyAccessToken)
	} else {
		_ = s.storage.Set(KeyAccessToken, token)
	}
	_ = s.flush()
}

// clear drops the session and removes whatever is persisted.
func (s *Store) clear() error {
	_, hasUser := s.storage.Get(KeyUser)
	_, hasToken := s.storage.Get(KeyAccessToken)

	var errs []error
	if hasUser {
		errs = append(errs, s.storage.Delete(KeyUser))
	}
	if hasToken {
		errs = append(errs, s.storage.Delete(KeyAccessToken))
	}
	if hasUser || hasToken {
		errs = append(errs, s.flush())
	}

	s.set(nil, "", s.Loading())

	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("clear session storage: %w", err)
	}
	return nil
}

// discard drops whatever credential is left in storage after a failed
// verification, so it is not sent again.
func (s *Store) discard(ctx context.Context) {
	if err := s.clear(); err != nil {
		s.log.WarnContext(ctx, "clear unverified session", "error", err)
	}
}

func (s *Store) remove(key string) error {
	if err := s.storage.Delete(key); err != nil {
		return err
	}
	return s.flush()
}

func (s *Store) flush() error {
	if f, ok := s.storage.(Flusher); ok {
		return f.Flush()
	}
	return nil
}

func (s *Store) set(user *models.User, token string, loading bool) {
	s.mu.Lock()
	changed := !s.user.Equal(user) || s.loading != loading
	if user != nil {
		u := *user
		user = &u
	}
	s.user, s.token, s.loading = user, token, loading
	s.mu.Unlock()

	if changed {
		s.notify()
	}
}

func (s *Store) setLoading(loading bool) {
	s.mu.Lock()
	changed := s.loading != loading
	s.loading = loading
	s.mu.Unlock()

	if changed {
		s.notify()
	}
}

func (s *Store) notify() {
	if s.observe != nil {
		s.observe(s.State())
	}
}

// Persisted reads the stored snapshot without touching the network or the
// storage. It is a fast, possibly stale "is logged in" signal.
func Persisted(storage Storage) (*models.User, bool) {
	raw, ok := storage.Get(KeyUser)
	if !ok {
		return nil, false
	}
	user, err := decodeUser(raw)
	if err != nil {
		return nil, false
	}
	return user, true
}

func encodeUser(user *models.User) (string, error) {
	raw, err := json.Marshal(user)
	if err != nil {
		return "", fmt.Errorf("encode session snapshot: %w", err)
	}
	return string(raw), nil
}

func decodeUser(raw string) (*models.User, error) {
	var user models.User
	if err := json.Unmarshal([]byte(raw), &user); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptSnapshot, err)
	}
	if !user.Complete() {
		return nil, ErrCorruptSnapshot
	}
	return &user, nil
}
