// Package auth authenticates console staff with configured credentials and
// issues short-lived JWT access tokens for the editor API.
package auth

import (
	"context"
	"errors"
	"time"

	"instituteweb/admin-console/internal"

	logutil "github.com/NYCU-SDC/summer/pkg/log"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const Issuer = "admin-console"

// Staff is one configured console account. PasswordHash is a bcrypt hash.
type Staff struct {
	Username     string
	Role         string
	PasswordHash string
}

func (s Staff) GetUsername() string { return s.Username }
func (s Staff) GetRole() string     { return s.Role }

type Service struct {
	logger *zap.Logger
	tracer trace.Tracer

	secret     string
	expiration time.Duration
	staff      map[string]Staff
}

func NewService(logger *zap.Logger, secret string, expiration time.Duration, staff []Staff) *Service {
	byName := make(map[string]Staff, len(staff))
	for _, s := range staff {
		byName[s.Username] = s
	}

	return &Service{
		logger:     logger,
		tracer:     otel.Tracer("auth/service"),
		secret:     secret,
		expiration: expiration,
		staff:      byName,
	}
}

type claims struct {
	Username string
	Role     string
	jwt.RegisteredClaims
}

// Login checks the credentials and returns a signed access token. Unknown
// users and wrong passwords are indistinguishable to the caller.
func (s *Service) Login(ctx context.Context, username, password string) (string, error) {
	traceCtx, span := s.tracer.Start(ctx, "Login")
	defer span.End()
	logger := logutil.WithContext(traceCtx, s.logger)

	staff, ok := s.staff[username]
	if !ok {
		logger.Warn("Login attempt for unknown user", zap.String("username", username))
		return "", internal.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(staff.PasswordHash), []byte(password)); err != nil {
		logger.Warn("Login attempt with wrong password", zap.String("username", username))
		return "", internal.ErrInvalidCredentials
	}

	token, err := s.issue(staff)
	if err != nil {
		span.RecordError(err)
		logger.Error("failed to sign token", zap.Error(err), zap.String("username", username))
		return "", err
	}

	logger.Info("Staff logged in", zap.String("username", username), zap.String("role", staff.Role))
	return token, nil
}

func (s *Service) issue(staff Staff) (string, error) {
	now := time.Now()
	jwtID := uuid.New()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, &claims{
		Username: staff.Username,
		Role:     staff.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    Issuer,
			Subject:   staff.Username,
			ExpiresAt: jwt.NewNumericDate(now.Add(s.expiration)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ID:        jwtID.String(),
		},
	})

	return token.SignedString([]byte(s.secret))
}

// Parse verifies an access token and returns the staff identity it names.
func (s *Service) Parse(ctx context.Context, tokenString string) (Staff, error) {
	traceCtx, span := s.tracer.Start(ctx, "Parse")
	defer span.End()
	logger := logutil.WithContext(traceCtx, s.logger)

	secret := func(token *jwt.Token) (interface{}, error) {
		return []byte(s.secret), nil
	}

	tokenClaims := &claims{}
	_, err := jwt.ParseWithClaims(tokenString, tokenClaims, secret)
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenMalformed):
			logger.Warn("Failed to parse JWT token due to malformed structure, this is not a JWT token", zap.String("error", err.Error()))
		case errors.Is(err, jwt.ErrSignatureInvalid):
			logger.Warn("Failed to parse JWT token due to invalid signature", zap.String("error", err.Error()))
		case errors.Is(err, jwt.ErrTokenExpired):
			logger.Warn("Failed to parse JWT token due to expired timestamp", zap.String("error", err.Error()))
		case errors.Is(err, jwt.ErrTokenNotValidYet):
			logger.Warn("Failed to parse JWT token due to not valid yet timestamp", zap.String("error", err.Error()))
		default:
			logger.Error("Failed to parse JWT token", zap.Error(err))
		}
		return Staff{}, internal.ErrInvalidToken
	}

	staff, ok := s.staff[tokenClaims.Username]
	if !ok {
		// Account removed after the token was issued.
		logger.Warn("Token names a user that no longer exists", zap.String("username", tokenClaims.Username))
		return Staff{}, internal.ErrInvalidToken
	}

	return staff, nil
}

// Expiration reports the configured access token lifetime.
func (s *Service) Expiration() time.Duration {
	return s.expiration
}

// HashPassword produces the bcrypt hash stored in staff configuration.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
