package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/sync/errgroup"

	"github.com/wildcloud/starter-api/internal/api/metrics"
	"github.com/wildcloud/starter-api/internal/core/domain"
	"github.com/wildcloud/starter-api/internal/core/ports"
)

const bcryptCost = 12

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// AuthService implements registration, login, logout, and request identity
// verification. The session cache is the revocation mechanism: a
// cryptographically valid token without a cached session is rejected.
type AuthService struct {
	users     ports.UserRepository
	sessions  ports.SessionService
	jwtSecret string
	tokenTTL  time.Duration
	log       zerolog.Logger
}

func NewAuthService(users ports.UserRepository, sessions ports.SessionService, jwtSecret string, tokenTTL time.Duration, log zerolog.Logger) *AuthService {
	if tokenTTL <= 0 {
		tokenTTL = domain.SessionTTL
	}
	return &AuthService{users: users, sessions: sessions, jwtSecret: jwtSecret, tokenTTL: tokenTTL, log: log}
}

func (s *AuthService) Register(ctx context.Context, email, password, name string) (*domain.User, error) {
	if email == "" || password == "" {
		missing := make([]string, 0, 2)
		if email == "" {
			missing = append(missing, "email")
		}
		if password == "" {
			missing = append(missing, "password")
		}
		return nil, domain.NewError(domain.CodeMissingParams, "").WithDetails(missing)
	}
	if !emailPattern.MatchString(email) {
		return nil, domain.NewError(domain.CodeInvalidParams, "invalid email format")
	}
	if len(password) < 6 {
		return nil, domain.NewError(domain.CodeInvalidParams, "password must be at least 6 characters")
	}
	if len(password) > 128 {
		return nil, domain.NewError(domain.CodeInvalidParams, "password must be at most 128 characters")
	}
	if len(name) > 50 {
		return nil, domain.NewError(domain.CodeInvalidParams, "name must be between 1 and 50 characters")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &domain.User{
		Email:        email,
		Name:         name,
		PasswordHash: string(hash),
		Language:     domain.DefaultLanguage,
		Theme:        domain.DefaultTheme,
		Timezone:     domain.DefaultTimezone,
	}

	created, err := s.users.Create(ctx, user)
	if err != nil {
		return nil, err
	}
	return created, nil
}

// Login verifies the credentials, issues a signed token, and writes the
// session record and a settings snapshot to the cache concurrently.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, *domain.User, error) {
	if email == "" || password == "" {
		return "", nil, domain.ErrInvalidCredentials
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return "", nil, domain.ErrInvalidCredentials
		}
		return "", nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return "", nil, domain.ErrInvalidCredentials
	}

	token, err := s.generateToken(user.ID)
	if err != nil {
		return "", nil, fmt.Errorf("sign token: %w", err)
	}

	session := &domain.Session{
		ID:        user.ID,
		Email:     user.Email,
		Name:      user.Name,
		LoginTime: time.Now().UTC().Format(time.RFC3339),
	}
	settings := domain.SettingsFromUser(user)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return s.sessions.PutSession(gctx, session) })
	g.Go(func() error { return s.sessions.PutSettings(gctx, settings) })
	if err := g.Wait(); err != nil {
		return "", nil, err
	}

	return token, user, nil
}

// Logout revokes the login by deleting the cached session.
func (s *AuthService) Logout(ctx context.Context, userID int64) error {
	return s.sessions.DeleteSession(ctx, userID)
}

// Verify resolves a request token into an identity. Every failure path,
// including an unreachable cache, returns an error: verification fails
// closed so protected resources always require a cache-confirmed session.
func (s *AuthService) Verify(ctx context.Context, token string) (*ports.Identity, error) {
	userID, err := s.parseToken(token)
	if err != nil {
		metrics.AuthVerifyTotal.WithLabelValues("invalid_token").Inc()
		return nil, err
	}

	session, err := s.sessions.GetSession(ctx, userID)
	if err != nil {
		metrics.AuthVerifyTotal.WithLabelValues("error").Inc()
		return nil, err
	}
	if session == nil {
		metrics.AuthVerifyTotal.WithLabelValues("no_session").Inc()
		return nil, fmt.Errorf("no active session for user %d", userID)
	}

	// Opportunistic: a failed activity stamp must not cost a confirmed
	// session its authentication.
	if err := s.sessions.UpdateActivity(ctx, userID); err != nil {
		s.log.Warn().Err(err).Int64("user_id", userID).Msg("activity update failed")
	}

	metrics.AuthVerifyTotal.WithLabelValues("ok").Inc()
	return &ports.Identity{UserID: session.ID, Email: session.Email, Name: session.Name}, nil
}

func (s *AuthService) generateToken(userID int64) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   strconv.FormatInt(userID, 10),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(s.jwtSecret))
}

// parseToken validates the signature and extracts the subject, which must
// be a positive integer user id.
func (s *AuthService) parseToken(token string) (int64, error) {
	if token == "" {
		return 0, errors.New("missing token")
	}

	claims := &jwt.RegisteredClaims{}
	tkn, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return []byte(s.jwtSecret), nil
	})
	if err != nil {
		return 0, fmt.Errorf("parse token: %w", err)
	}
	if !tkn.Valid {
		return 0, jwt.ErrTokenSignatureInvalid
	}

	userID, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil || userID <= 0 {
		return 0, fmt.Errorf("invalid token subject %q", claims.Subject)
	}
	return userID, nil
}
