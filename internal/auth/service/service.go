// Package service signs the configured administrator in and out. Sessions are
// stateless JWTs; sign-out works by revoking the token ID until it expires.
package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"practiceadmin/internal/audit"
	jwttoken "practiceadmin/internal/jwt_token"
	"practiceadmin/internal/platform/metrics"
	ratelimitmodels "practiceadmin/internal/ratelimit/models"
	dErrors "practiceadmin/pkg/domain-errors"
	"practiceadmin/pkg/email"
	"practiceadmin/pkg/requestcontext"
)

type TokenService interface {
	GenerateAccessToken(email, name string, now time.Time, expiresIn time.Duration) (string, *jwttoken.Claims, error)
	ValidateToken(token string) (*jwttoken.Claims, error)
}

type RevocationList interface {
	RevokeToken(ctx context.Context, jti string, ttl time.Duration) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

// Lockout throttles repeated sign-in failures per email and client IP.
type Lockout interface {
	Check(ctx context.Context, email, ip string) error
	RecordFailure(ctx context.Context, email, ip string) (*ratelimitmodels.Lockout, error)
	Clear(ctx context.Context, email, ip string) error
}

type AuditPublisher interface {
	Emit(ctx context.Context, e audit.Event) error
}

// Credential is the single account allowed to sign in.
type Credential struct {
	Email    string
	Name     string
	Password string
}

// Session is the result of a successful sign-in.
type Session struct {
	Token     string              `json:"token"`
	TokenType string              `json:"token_type"`
	TokenID   string              `json:"-"`
	ExpiresAt time.Time           `json:"expires_at"`
	User      requestcontext.User `json:"user"`
}

const DefaultSessionTTL = 12 * time.Hour

type Service struct {
	email          string
	name           string
	passwordHash   []byte
	tokens         TokenService
	revocations    RevocationList
	sessionTTL     time.Duration
	bcryptCost     int
	logger         *slog.Logger
	auditPublisher AuditPublisher
	metrics        *metrics.Metrics
	lockout        Lockout
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithAuditPublisher(publisher AuditPublisher) Option {
	return func(s *Service) {
		s.auditPublisher = publisher
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

func WithLockout(l Lockout) Option {
	return func(s *Service) {
		s.lockout = l
	}
}

func WithSessionTTL(ttl time.Duration) Option {
	return func(s *Service) {
		if ttl > 0 {
			s.sessionTTL = ttl
		}
	}
}

// WithBcryptCost lowers the hashing cost; tests use bcrypt.MinCost.
func WithBcryptCost(cost int) Option {
	return func(s *Service) {
		s.bcryptCost = cost
	}
}

// New hashes the configured password once so the plain text is not kept.
func New(cred Credential, tokens TokenService, revocations RevocationList, opts ...Option) (*Service, error) {
	if tokens == nil {
		return nil, errors.New("token service is required")
	}
	if revocations == nil {
		return nil, errors.New("revocation list is required")
	}
	if strings.TrimSpace(cred.Email) == "" || cred.Password == "" {
		return nil, errors.New("admin email and password are required")
	}

	s := &Service{
		email:       normalizeEmail(cred.Email),
		name:        strings.TrimSpace(cred.Name),
		tokens:      tokens,
		revocations: revocations,
		sessionTTL:  DefaultSessionTTL,
		bcryptCost:  bcrypt.DefaultCost,
		logger:      slog.Default(),
	}
	if s.name == "" {
		s.name = email.DisplayName(s.email)
	}
	for _, opt := range opts {
		opt(s)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(cred.Password), s.bcryptCost)
	if err != nil {
		return nil, err
	}
	s.passwordHash = hash
	return s, nil
}

// SignIn checks the credential and issues a session token.
func (s *Service) SignIn(ctx context.Context, email, password string) (*Session, error) {
	email = normalizeEmail(email)
	ip := requestcontext.ClientIP(ctx)
	if s.lockout != nil {
		if err := s.lockout.Check(ctx, email, ip); err != nil {
			s.metrics.IncrementSignIn("locked")
			return nil, err
		}
	}

	emailOK := subtle.ConstantTimeCompare([]byte(email), []byte(s.email)) == 1
	// The hash is always compared so a wrong email costs the same as a wrong password.
	passwordOK := bcrypt.CompareHashAndPassword(s.passwordHash, []byte(password)) == nil
	if !emailOK || !passwordOK {
		s.metrics.IncrementSignIn("failure")
		s.logger.WarnContext(ctx, "sign-in failed",
			"request_id", requestcontext.RequestID(ctx),
			"email", email,
		)
		s.emit(ctx, audit.Event{Action: audit.SignInFailed, Entity: "session", Actor: email})
		if s.lockout != nil {
			if _, err := s.lockout.RecordFailure(ctx, email, ip); err != nil {
				s.logger.ErrorContext(ctx, "failed to record sign-in failure",
					"request_id", requestcontext.RequestID(ctx),
					"error", err,
				)
			}
		}
		return nil, dErrors.New(dErrors.CodeUnauthorized, "invalid credentials")
	}

	now := requestcontext.Now(ctx)
	token, claims, err := s.tokens.GenerateAccessToken(s.email, s.name, now, s.sessionTTL)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to issue token")
	}

	if s.lockout != nil {
		if err := s.lockout.Clear(ctx, email, ip); err != nil {
			s.logger.WarnContext(ctx, "failed to clear sign-in failures",
				"request_id", requestcontext.RequestID(ctx),
				"error", err,
			)
		}
	}

	s.metrics.IncrementSignIn("success")
	s.logger.InfoContext(ctx, "signed in",
		"request_id", requestcontext.RequestID(ctx),
		"email", s.email,
	)
	s.emit(ctx, audit.Event{Action: audit.SignInSucceeded, Entity: "session", EntityID: claims.ID, Actor: s.email})

	return &Session{
		Token:     token,
		TokenType: "Bearer",
		TokenID:   claims.ID,
		ExpiresAt: claims.ExpiresAt.Time,
		User:      requestcontext.User{Email: s.email, Name: s.name},
	}, nil
}

// SignOut revokes the token until expiresAt. A token that has already expired
// needs no revocation.
func (s *Service) SignOut(ctx context.Context, jti string, expiresAt time.Time) error {
	if jti == "" {
		return dErrors.New(dErrors.CodeUnauthorized, "no active session")
	}
	ttl := expiresAt.Sub(requestcontext.Now(ctx))
	if ttl > 0 {
		if err := s.revocations.RevokeToken(ctx, jti, ttl); err != nil {
			s.logger.ErrorContext(ctx, "failed to add token to revocation list",
				"request_id", requestcontext.RequestID(ctx),
				"jti", jti,
				"error", err,
			)
			return dErrors.Wrap(err, dErrors.CodeUnavailable, "failed to sign out")
		}
	}
	s.emit(ctx, audit.Event{Action: audit.SignedOut, Entity: "session", EntityID: jti})
	return nil
}

// Authenticate validates a bearer token and rejects revoked ones. Revocation
// lookup failures reject the token.
func (s *Service) Authenticate(ctx context.Context, token string) (requestcontext.User, requestcontext.Session, error) {
	claims, err := s.tokens.ValidateToken(token)
	if err != nil {
		return requestcontext.User{}, requestcontext.Session{}, err
	}
	revoked, err := s.revocations.IsRevoked(ctx, claims.ID)
	if err != nil {
		return requestcontext.User{}, requestcontext.Session{}, dErrors.Wrap(err, dErrors.CodeUnauthorized, "unable to verify token")
	}
	if revoked {
		return requestcontext.User{}, requestcontext.Session{}, dErrors.New(dErrors.CodeUnauthorized, "token has been revoked")
	}
	return requestcontext.User{Email: claims.Email, Name: claims.Name},
		requestcontext.Session{TokenID: claims.ID, ExpiresAt: claims.ExpiresAt.Time},
		nil
}

// CurrentUser returns the principal that RequireAuth put in ctx.
func (s *Service) CurrentUser(ctx context.Context) (requestcontext.User, error) {
	u, ok := requestcontext.Principal(ctx)
	if !ok {
		return requestcontext.User{}, dErrors.New(dErrors.CodeUnauthorized, "authentication required")
	}
	return u, nil
}

func (s *Service) emit(ctx context.Context, e audit.Event) {
	if s.auditPublisher == nil {
		return
	}
	if err := s.auditPublisher.Emit(ctx, e); err != nil {
		s.logger.WarnContext(ctx, "failed to emit audit event",
			"request_id", requestcontext.RequestID(ctx),
			"action", e.Action,
			"error", err,
		)
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
