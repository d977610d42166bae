// Package session holds the signed-in state shared by the rest of the client.
package session

import (
	"context"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/prohmpiriya/bazaar-client/internal/api"
	"github.com/prohmpiriya/bazaar-client/internal/domain"
	"github.com/prohmpiriya/bazaar-client/internal/dto"
	"github.com/prohmpiriya/bazaar-client/internal/service"
	"github.com/prohmpiriya/bazaar-client/internal/tokenstore"
	"github.com/prohmpiriya/bazaar-client/pkg/logger"
	"github.com/prohmpiriya/bazaar-client/pkg/telemetry"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// State is the auth session state
type State string

const (
	StateInitializing  State = "initializing"
	StateAnonymous     State = "anonymous"
	StateAuthenticated State = "authenticated"
)

// AccountKind selects which login endpoints a credential is sent to
type AccountKind string

const (
	// AccountCustomer also covers admin accounts
	AccountCustomer AccountKind = "customer"
	AccountSeller   AccountKind = "seller"
)

// IsValid checks if the account kind is known
func (k AccountKind) IsValid() bool {
	return k == AccountCustomer || k == AccountSeller
}

// ParseAccountKind accepts "customer", "admin" or "seller"
func ParseAccountKind(s string) (AccountKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "customer", "admin", "":
		return AccountCustomer, nil
	case "seller":
		return AccountSeller, nil
	}
	return "", domain.ErrInvalidAccountKind
}

// Credentials carry an email with either an OTP or a password
type Credentials struct {
	Email    string
	OTP      string
	Password string
}

// Validate requires an email and exactly one secret
func (c Credentials) Validate() error {
	if strings.TrimSpace(c.Email) == "" {
		return domain.ErrInvalidEmail
	}
	if (c.OTP == "") == (c.Password == "") {
		return domain.ErrInvalidCredentials
	}
	return nil
}

// Listener observes state transitions. It runs on the goroutine that caused
// the transition, after the session lock is released.
type Listener func(ctx context.Context, from, to State)

// Auth is the auth session: it owns the token lifecycle and the current user.
// Every transition bumps an epoch; a login that sees a different epoch when it
// completes commits nothing.
type Auth struct {
	auth  service.AuthService
	store tokenstore.Store
	log   *logger.Logger
	now   func() time.Time

	// commitMu orders token store writes against logout and restore
	commitMu sync.Mutex

	mu        sync.RWMutex
	state     State
	user      *domain.User
	token     string
	kind      AccountKind
	epoch     uint64
	listeners []Listener
}

// NewAuth creates a session in the Initializing state. Call Restore to resolve it.
func NewAuth(auth service.AuthService, store tokenstore.Store, log *logger.Logger) *Auth {
	if log == nil {
		log = logger.NewNop()
	}
	return &Auth{
		auth:  auth,
		store: store,
		log:   log.Named("session"),
		now:   time.Now,
		state: StateInitializing,
	}
}

// Subscribe registers a listener for state transitions
func (s *Auth) Subscribe(l Listener) {
	s.mu.Lock()
	s.listeners = append(s.listeners, l)
	s.mu.Unlock()
}

// State returns the current state
func (s *Auth) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// CurrentUser returns a copy of the signed-in user, nil when anonymous
func (s *Auth) CurrentUser() *domain.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return nil
	}
	u := *s.user
	return &u
}

// IsAuthenticated reports whether a validated session exists
func (s *Auth) IsAuthenticated() bool {
	return s.State() == StateAuthenticated
}

// Kind returns the account kind of the current session
func (s *Auth) Kind() AccountKind {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.kind
}

// Token returns the validated token of the current session
func (s *Auth) Token() (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token, s.token != ""
}

// TokenExpiry returns the exp claim of the current token, if it has one
func (s *Auth) TokenExpiry() (time.Time, bool) {
	token, ok := s.Token()
	if !ok {
		return time.Time{}, false
	}
	claims, err := tokenstore.ParseClaims(token)
	if err != nil {
		return time.Time{}, false
	}
	return claims.Expiry()
}

// Restore resolves the Initializing state from the persisted token. A missing
// or expired token resolves to Anonymous without a network call. A token the
// backend rejects is cleared; that failure is logged, not returned.
func (s *Auth) Restore(ctx context.Context) State {
	ctx, span := telemetry.StartSpan(ctx, "session.restore")
	defer span.End()

	epoch := s.begin(ctx, false)

	token, ok := s.store.Get(ctx)
	if ok {
		if claims, err := tokenstore.ParseClaims(token); err == nil && claims.Expired(s.now()) {
			s.log.Info("stored token expired")
			ok = false
		}
	}
	span.SetAttributes(attribute.Bool("session.token_found", ok))
	if !ok {
		s.abandon(ctx, epoch)
		return s.State()
	}

	kind := kindFromToken(token)
	user, err := s.profile(ctx, kind)
	if err != nil {
		s.log.Info("stored session rejected", zap.Error(err))
		s.abandon(ctx, epoch)
		return s.State()
	}
	if err := s.commit(ctx, epoch, token, kind, user); err != nil {
		s.log.Debug("restore superseded")
	}
	return s.State()
}

// SendOtp asks the backend to email a code for the role. The session state is
// not touched.
func (s *Auth) SendOtp(ctx context.Context, email string, role domain.Role) (string, error) {
	ctx, span := telemetry.StartSpan(ctx, "session.send_otp")
	defer span.End()

	res, err := s.auth.SendOtp(ctx, &dto.SendOtpRequest{Email: email, Role: role})
	if err != nil {
		return "", err
	}
	return res.Message, nil
}

// SendSignupOtp starts the password signup flow; finish it with VerifySignup
func (s *Auth) SendSignupOtp(ctx context.Context, email, fullName, password string) (string, error) {
	ctx, span := telemetry.StartSpan(ctx, "session.send_signup_otp")
	defer span.End()

	res, err := s.auth.SendSignupOtp(ctx, &dto.SignupWithPasswordRequest{
		Email:    email,
		FullName: fullName,
		Password: password,
	})
	if err != nil {
		return "", err
	}
	return res.Message, nil
}

// Login exchanges credentials for a token at the endpoints of the given
// account kind, then fetches the matching profile. On failure the session and
// the token store are left as they were.
func (s *Auth) Login(ctx context.Context, creds Credentials, kind AccountKind) (*domain.User, error) {
	ctx, span := telemetry.StartSpan(ctx, "session.login")
	defer span.End()
	span.SetAttributes(attribute.String("account_kind", string(kind)))

	if !kind.IsValid() {
		return nil, api.Classify(domain.ErrInvalidAccountKind)
	}
	if err := creds.Validate(); err != nil {
		return nil, api.Classify(err)
	}

	return s.authenticate(ctx, kind, func(ctx context.Context) (*dto.AuthResponse, error) {
		switch {
		case kind == AccountSeller && creds.OTP != "":
			return s.auth.SellerSignin(ctx, &dto.SigninRequest{Email: creds.Email, OTP: creds.OTP})
		case kind == AccountSeller:
			return s.auth.SellerSigninWithPassword(ctx, &dto.PasswordLoginRequest{Email: creds.Email, Password: creds.Password})
		case creds.OTP != "":
			return s.auth.Signin(ctx, &dto.SigninRequest{Email: creds.Email, OTP: creds.OTP})
		default:
			return s.auth.SigninWithPassword(ctx, &dto.PasswordLoginRequest{Email: creds.Email, Password: creds.Password})
		}
	})
}

// Signup creates a customer account with an OTP and signs it in
func (s *Auth) Signup(ctx context.Context, email, fullName, otp string) (*domain.User, error) {
	ctx, span := telemetry.StartSpan(ctx, "session.signup")
	defer span.End()

	req := &dto.SignupRequest{Email: email, FullName: fullName, OTP: otp}
	if err := req.Validate(); err != nil {
		return nil, api.Classify(err)
	}
	return s.authenticate(ctx, AccountCustomer, func(ctx context.Context) (*dto.AuthResponse, error) {
		return s.auth.Signup(ctx, req)
	})
}

// VerifySignup completes the password signup flow and signs the account in
func (s *Auth) VerifySignup(ctx context.Context, email, otp string) (*domain.User, error) {
	ctx, span := telemetry.StartSpan(ctx, "session.verify_signup")
	defer span.End()

	return s.authenticate(ctx, AccountCustomer, func(ctx context.Context) (*dto.AuthResponse, error) {
		return s.auth.VerifySignupOtp(ctx, &dto.VerifyOtpRequest{Email: email, OTP: otp})
	})
}

// Logout drops the session. Memory is cleared even when the store clear fails;
// that error is returned.
func (s *Auth) Logout(ctx context.Context) error {
	ctx, span := telemetry.StartSpan(ctx, "session.logout")
	defer span.End()

	s.commitMu.Lock()
	from := s.reset()
	err := s.store.Clear(ctx)
	s.commitMu.Unlock()

	if err != nil {
		s.log.Warn("clear token on logout", zap.Error(err))
		telemetry.RecordError(span, err)
	}
	s.notify(ctx, from, StateAnonymous)
	return api.Classify(err)
}

// Invalidate drops the session after the backend rejected its token. It is
// registered as the api client's unauthorized hook, which has already
// cleared the store.
func (s *Auth) Invalidate(ctx context.Context) {
	from := s.reset()
	if from == StateAuthenticated {
		s.log.Info("session invalidated by backend")
	}
	s.notify(ctx, from, StateAnonymous)
}

// authenticate runs a token exchange and commits the result if no other
// transition happened meanwhile
func (s *Auth) authenticate(ctx context.Context, kind AccountKind, exchange func(context.Context) (*dto.AuthResponse, error)) (*domain.User, error) {
	epoch := s.begin(ctx, true)

	res, err := exchange(ctx)
	if err != nil {
		return nil, err
	}

	// the profile endpoints read the token from the store
	if err := s.persist(ctx, epoch, res.JWT); err != nil {
		return nil, api.Classify(err)
	}

	user, err := s.profile(ctx, kind)
	if err != nil {
		s.abandon(ctx, epoch)
		return nil, err
	}
	if err := s.commit(ctx, epoch, res.JWT, kind, user); err != nil {
		return nil, api.Classify(err)
	}

	s.log.Info("signed in",
		zap.String("account_kind", string(kind)),
		zap.Int64("user_id", user.ID),
		zap.String("role", string(user.Role)),
	)
	return user, nil
}

func (s *Auth) profile(ctx context.Context, kind AccountKind) (*domain.User, error) {
	if kind == AccountSeller {
		seller, err := s.auth.SellerProfile(ctx)
		if err != nil {
			return nil, err
		}
		return seller.AsUser(), nil
	}
	return s.auth.Profile(ctx)
}

// begin starts a transition and returns its epoch. An interactive call takes
// over from a pending restore.
func (s *Auth) begin(ctx context.Context, interactive bool) uint64 {
	s.mu.Lock()
	s.epoch++
	epoch := s.epoch
	from := s.state
	if interactive && s.state == StateInitializing {
		s.state = StateAnonymous
	}
	to := s.state
	s.mu.Unlock()

	if from != to {
		s.notify(ctx, from, to)
	}
	return epoch
}

func (s *Auth) current(epoch uint64) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.epoch == epoch
}

// persist writes the token if the transition is still current
func (s *Auth) persist(ctx context.Context, epoch uint64, token string) error {
	s.commitMu.Lock()
	defer s.commitMu.Unlock()

	if !s.current(epoch) {
		return domain.ErrSessionSuperseded
	}
	return s.store.Set(ctx, token)
}

// commit makes a validated token the current session
func (s *Auth) commit(ctx context.Context, epoch uint64, token string, kind AccountKind, user *domain.User) error {
	s.mu.Lock()
	if s.epoch != epoch {
		s.mu.Unlock()
		return domain.ErrSessionSuperseded
	}
	from := s.state
	s.state = StateAuthenticated
	s.user = user
	s.token = token
	s.kind = kind
	s.mu.Unlock()

	s.notify(ctx, from, StateAuthenticated)
	return nil
}

// abandon clears a token that failed validation. A transition that has been
// superseded leaves the store and state to whoever superseded it.
func (s *Auth) abandon(ctx context.Context, epoch uint64) {
	s.commitMu.Lock()
	if !s.current(epoch) {
		s.commitMu.Unlock()
		return
	}
	if err := s.store.Clear(ctx); err != nil {
		s.log.Warn("clear rejected token", zap.Error(err))
	}
	s.mu.Lock()
	from := s.state
	if s.epoch == epoch {
		s.state = StateAnonymous
		s.user = nil
		s.token = ""
		s.kind = ""
	}
	s.mu.Unlock()
	s.commitMu.Unlock()

	s.notify(ctx, from, StateAnonymous)
}

// reset bumps the epoch and drops the in-memory session
func (s *Auth) reset() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	from := s.state
	s.epoch++
	s.state = StateAnonymous
	s.user = nil
	s.token = ""
	s.kind = ""
	return from
}

func (s *Auth) notify(ctx context.Context, from, to State) {
	if from == to && to != StateAuthenticated {
		return
	}
	s.mu.RLock()
	listeners := slices.Clone(s.listeners)
	s.mu.RUnlock()

	s.log.Debug("session transition", zap.String("from", string(from)), zap.String("to", string(to)))
	for _, l := range listeners {
		l(ctx, from, to)
	}
}

// kindFromToken picks the profile endpoint for a restored token from its
// authorities claim. Opaque tokens are treated as customer tokens.
func kindFromToken(token string) AccountKind {
	claims, err := tokenstore.ParseClaims(token)
	if err != nil {
		return AccountCustomer
	}
	if slices.Contains(claims.Roles(), string(domain.RoleSeller)) {
		return AccountSeller
	}
	return AccountCustomer
}
