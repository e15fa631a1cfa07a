package service

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/flashdeck/internal/domain"
	"github.com/phrazzld/flashdeck/internal/platform/logger"
	"github.com/phrazzld/flashdeck/internal/service/auth"
	"github.com/phrazzld/flashdeck/internal/store"
)

// AuthResult is returned by a successful registration or login.
type AuthResult struct {
	User      *domain.PublicUser
	Token     string
	ExpiresAt time.Time
}

// Principal identifies the caller for GetIdentity: either verified token
// claims or a raw user ID.
type Principal struct {
	UserID uuid.UUID
	Claims *auth.Claims
}

// PrincipalFromClaims builds a Principal from verified token claims.
func PrincipalFromClaims(claims *auth.Claims) Principal {
	p := Principal{Claims: claims}
	if claims != nil {
		p.UserID = claims.UserID
	}
	return p
}

// PrincipalFromUserID builds a Principal from a user ID.
func PrincipalFromUserID(id uuid.UUID) Principal {
	return Principal{UserID: id}
}

// AuthService provides registration, login and session operations.
type AuthService interface {
	// Register creates a user and issues a session token atomically.
	Register(ctx context.Context, email, password string) (*AuthResult, error)

	// Login verifies credentials. An unknown email and a wrong password both
	// return (nil, nil).
	Login(ctx context.Context, email, password string) (*AuthResult, error)

	// GetIdentity returns the public user for principal, or (nil, nil) when
	// the user does not exist.
	GetIdentity(ctx context.Context, principal Principal) (*domain.PublicUser, error)

	// Authenticate validates a bearer token and checks it has not been revoked.
	Authenticate(ctx context.Context, token string) (*auth.Claims, error)

	// Logout revokes the session described by claims until it expires.
	Logout(ctx context.Context, claims *auth.Claims) error

	// RevocationEnabled reports whether Logout is supported.
	RevocationEnabled() bool
}

// authServiceImpl implements the AuthService interface
type authServiceImpl struct {
	db        store.TxBeginner
	userStore store.UserStore
	hasher    auth.PasswordHasher
	tokens    auth.JWTService
	denylist  store.TokenDenylist
	logger    *slog.Logger

	dummyOnce sync.Once
	dummyHash string
}

// NewAuthService creates a new AuthService.
// denylist may be nil, in which case Logout returns ErrRevocationUnavailable.
// It returns an error if any of the required dependencies are nil.
func NewAuthService(
	db store.TxBeginner,
	userStore store.UserStore,
	hasher auth.PasswordHasher,
	tokens auth.JWTService,
	denylist store.TokenDenylist,
	logger *slog.Logger,
) (AuthService, error) {
	if db == nil {
		return nil, domain.NewValidationError("db", "cannot be nil", domain.ErrValidation)
	}
	if userStore == nil {
		return nil, domain.NewValidationError("userStore", "cannot be nil", domain.ErrValidation)
	}
	if hasher == nil {
		return nil, domain.NewValidationError("hasher", "cannot be nil", domain.ErrValidation)
	}
	if tokens == nil {
		return nil, domain.NewValidationError("tokens", "cannot be nil", domain.ErrValidation)
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &authServiceImpl{
		db:        db,
		userStore: userStore,
		hasher:    hasher,
		tokens:    tokens,
		denylist:  denylist,
		logger:    logger.With(slog.String("component", "auth_service")),
	}, nil
}

// Register implements AuthService.Register
func (s *authServiceImpl) Register(ctx context.Context, email, password string) (*AuthResult, error) {
	const op = "register"
	log := logger.FromContextOrDefault(ctx, s.logger)

	user, err := domain.NewUser(email, password)
	if err != nil {
		log.Debug("registration rejected by validation", slog.String("error", err.Error()))
		return nil, newError(op, ErrValidation, err)
	}

	// bcrypt is slow; keep it outside the transaction
	hash, err := s.hasher.Hash(user.Password)
	if err != nil {
		log.Error("failed to hash password", slog.String("error", err.Error()))
		return nil, newError(op, ErrInternal, err)
	}
	user.SetHashedPassword(hash)

	var result *AuthResult
	err = store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		if err := s.userStore.WithTx(tx).Create(ctx, user); err != nil {
			return err
		}

		public := user.Public()
		token, expiresAt, err := s.tokens.GenerateToken(ctx, public)
		if err != nil {
			return err
		}

		result = &AuthResult{User: public, Token: token, ExpiresAt: expiresAt}
		return nil
	})
	if err != nil {
		if store.IsDuplicateError(err) {
			log.Info("registration rejected: email already exists")
			return nil, newError(op, ErrConflict, err)
		}
		if classify(err) == ErrValidation {
			return nil, newError(op, ErrValidation, err)
		}
		log.Error("failed to register user", slog.String("error", err.Error()))
		return nil, newError(op, ErrInternal, err)
	}

	log.Info("user registered", slog.String("user_id", result.User.ID.String()))
	return result, nil
}

// Login implements AuthService.Login
func (s *authServiceImpl) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	const op = "login"
	log := logger.FromContextOrDefault(ctx, s.logger)

	user, err := s.userStore.GetByEmail(ctx, email)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			log.Error("failed to look up user for login", slog.String("error", err.Error()))
			return nil, newError(op, ErrInternal, err)
		}
		// Same bcrypt work as a real comparison so timing does not reveal
		// whether the account exists.
		s.hasher.Verify(s.dummyDigest(), password)
		log.Debug("login failed: unknown email")
		return nil, nil
	}

	if !s.hasher.Verify(user.HashedPassword, password) {
		log.Debug("login failed: wrong password", slog.String("user_id", user.ID.String()))
		return nil, nil
	}

	public := user.Public()
	token, expiresAt, err := s.tokens.GenerateToken(ctx, public)
	if err != nil {
		log.Error("failed to issue token", slog.String("error", err.Error()))
		return nil, newError(op, ErrInternal, err)
	}

	log.Debug("user logged in", slog.String("user_id", user.ID.String()))
	return &AuthResult{User: public, Token: token, ExpiresAt: expiresAt}, nil
}

// GetIdentity implements AuthService.GetIdentity
func (s *authServiceImpl) GetIdentity(ctx context.Context, principal Principal) (*domain.PublicUser, error) {
	const op = "get identity"

	userID := principal.UserID
	if userID == uuid.Nil && principal.Claims != nil {
		userID = principal.Claims.UserID
	}
	if userID == uuid.Nil {
		return nil, newError(op, ErrUnauthorized, nil)
	}

	user, err := s.userStore.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, nil
		}
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to load identity",
			slog.String("user_id", userID.String()),
			slog.String("error", err.Error()))
		return nil, newError(op, ErrInternal, err)
	}

	return user.Public(), nil
}

// Authenticate implements AuthService.Authenticate
func (s *authServiceImpl) Authenticate(ctx context.Context, token string) (*auth.Claims, error) {
	const op = "authenticate"

	claims, err := s.tokens.ValidateToken(ctx, token)
	if err != nil {
		return nil, newError(op, ErrUnauthorized, err)
	}

	if s.denylist == nil || claims.ID == "" {
		return claims, nil
	}

	revoked, err := s.denylist.IsRevoked(ctx, claims.ID)
	if err != nil {
		// Fail closed: a revoked token must not slip through while the
		// denylist is unreachable.
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to check token denylist",
			slog.String("error", err.Error()))
		return nil, newError(op, ErrInternal, err)
	}
	if revoked {
		return nil, newError(op, ErrUnauthorized, ErrTokenRevoked)
	}

	return claims, nil
}

// Logout implements AuthService.Logout
func (s *authServiceImpl) Logout(ctx context.Context, claims *auth.Claims) error {
	const op = "logout"

	if s.denylist == nil {
		return newError(op, ErrRevocationUnavailable, nil)
	}
	if claims == nil || claims.ID == "" {
		return newError(op, ErrUnauthorized, nil)
	}

	if err := s.denylist.Revoke(ctx, claims.ID, claims.ExpiresAt); err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to revoke token",
			slog.String("user_id", claims.UserID.String()),
			slog.String("error", err.Error()))
		return newError(op, ErrInternal, err)
	}

	logger.FromContextOrDefault(ctx, s.logger).Info("session revoked",
		slog.String("user_id", claims.UserID.String()))
	return nil
}

// RevocationEnabled implements AuthService.RevocationEnabled
func (s *authServiceImpl) RevocationEnabled() bool {
	return s.denylist != nil
}

// dummyDigest lazily hashes a fixed password with the configured hasher so
// the unknown-email path pays the same cost as a real comparison.
func (s *authServiceImpl) dummyDigest() string {
	s.dummyOnce.Do(func() {
		hash, err := s.hasher.Hash("flashdeck-timing-equalizer")
		if err != nil {
			s.logger.Warn("failed to compute dummy password digest", slog.String("error", err.Error()))
			return
		}
		s.dummyHash = hash
	})
	return s.dummyHash
}
