package httpapi

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"eventdesk/backend/internal/domain"
	"eventdesk/backend/internal/store"
)

const minPasswordLength = 8

var (
	errInvalidCredentials = errors.New("invalid credentials")
	errAccountInactive    = errors.New("account is inactive")
	errInvalidToken       = errors.New("invalid or expired token")
)

// AuthManager authenticates the members of the allowed-users whitelist and
// issues the bearer tokens required by every /api/v1 route.
type AuthManager struct {
	secret   []byte
	tokenTTL time.Duration
	users    UserStore
	logger   *zap.Logger
	now      func() time.Time
}

type UserStore interface {
	CreateUser(ctx context.Context, user domain.UserAccount) error
	GetUser(ctx context.Context, email string) (*domain.UserAccount, error)
	ListUsers(ctx context.Context) ([]domain.UserAccount, error)
	UpdateUserPassword(ctx context.Context, email string, passwordHash string) error
	SetUserActive(ctx context.Context, email string, active bool) error
}

type eventdeskClaims struct {
	jwtlib.RegisteredClaims
	Role string `json:"role"`
}

func NewAuthManager(secret string, tokenTTL time.Duration, users UserStore, logger *zap.Logger) *AuthManager {
	if tokenTTL <= 0 {
		tokenTTL = 8 * time.Hour
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthManager{
		secret:   []byte(secret),
		tokenTTL: tokenTTL,
		users:    users,
		logger:   logger.Named("auth"),
		now:      func() time.Time { return time.Now().UTC() },
	}
}

func (a *AuthManager) Login(ctx context.Context, req domain.LoginRequest) (domain.LoginResponse, error) {
	email := normalizeEmail(req.Email)
	user, err := a.users.GetUser(ctx, email)
	if errors.Is(err, store.ErrNotFound) {
		return domain.LoginResponse{}, errInvalidCredentials
	}
	if err != nil {
		return domain.LoginResponse{}, fmt.Errorf("load user: %w", err)
	}
	if !verifyPassword(user.PasswordHash, req.Password) {
		return domain.LoginResponse{}, errInvalidCredentials
	}
	if !user.Active {
		return domain.LoginResponse{}, errAccountInactive
	}

	expiresAt := a.now().Add(a.tokenTTL)
	token, err := a.sign(user.Email, user.Role, expiresAt)
	if err != nil {
		return domain.LoginResponse{}, fmt.Errorf("sign token: %w", err)
	}
	a.logger.Info("login", zap.String("email", user.Email))

	return domain.LoginResponse{
		AccessToken: token,
		Role:        user.Role,
		ExpiresAt:   expiresAt.Format(time.RFC3339),
	}, nil
}

func (a *AuthManager) ParseToken(tokenStr string) (domain.Actor, error) {
	claims := &eventdeskClaims{}
	token, err := jwtlib.ParseWithClaims(tokenStr, claims, func(t *jwtlib.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwtlib.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return a.secret, nil
	}, jwtlib.WithValidMethods([]string{"HS256"}), jwtlib.WithTimeFunc(a.now))
	if err != nil || !token.Valid {
		return domain.Actor{}, errInvalidToken
	}
	sub, err := claims.GetSubject()
	if err != nil || sub == "" {
		return domain.Actor{}, errInvalidToken
	}
	return domain.Actor{Email: sub, Role: claims.Role}, nil
}

// Authenticate parses the token and checks that its subject is still an
// active member of the whitelist.
func (a *AuthManager) Authenticate(ctx context.Context, tokenStr string) (domain.Actor, error) {
	actor, err := a.ParseToken(tokenStr)
	if err != nil {
		return domain.Actor{}, err
	}
	user, err := a.users.GetUser(ctx, actor.Email)
	if errors.Is(err, store.ErrNotFound) {
		return domain.Actor{}, errInvalidToken
	}
	if err != nil {
		return domain.Actor{}, fmt.Errorf("load user: %w", err)
	}
	if !user.Active {
		return domain.Actor{}, errAccountInactive
	}
	actor.Role = user.Role
	return actor, nil
}

func (a *AuthManager) sign(email, role string, expiresAt time.Time) (string, error) {
	claims := eventdeskClaims{
		RegisteredClaims: jwtlib.RegisteredClaims{
			Subject:   email,
			IssuedAt:  jwtlib.NewNumericDate(a.now()),
			ExpiresAt: jwtlib.NewNumericDate(expiresAt),
			Issuer:    "eventdesk",
		},
		Role: role,
	}
	token := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, claims)
	return token.SignedString(a.secret)
}

func (a *AuthManager) CreateUser(ctx context.Context, req domain.UserCreateRequest) (domain.UserAccount, error) {
	email := normalizeEmail(req.Email)
	if email == "" || !strings.Contains(email, "@") || strings.ContainsAny(email, " \t\r\n") {
		return domain.UserAccount{}, fmt.Errorf("%w: email %q is not valid", store.ErrInvalidInput, req.Email)
	}
	if len(req.Password) < minPasswordLength {
		return domain.UserAccount{}, fmt.Errorf("%w: password must be at least %d characters", store.ErrInvalidInput, minPasswordLength)
	}
	role := strings.TrimSpace(req.Role)
	if role == "" {
		role = domain.RoleMember
	}
	if role != domain.RoleAdmin && role != domain.RoleMember {
		return domain.UserAccount{}, fmt.Errorf("%w: role must be %q or %q", store.ErrInvalidInput, domain.RoleAdmin, domain.RoleMember)
	}

	passwordHash, err := hashPassword(req.Password)
	if err != nil {
		return domain.UserAccount{}, fmt.Errorf("hash password: %w", err)
	}
	user := domain.UserAccount{
		Email:        email,
		PasswordHash: passwordHash,
		Role:         role,
		Active:       true,
		CreatedAt:    a.now(),
	}
	if err := a.users.CreateUser(ctx, user); err != nil {
		return domain.UserAccount{}, err
	}
	a.logger.Info("user added to whitelist", zap.String("email", email), zap.String("role", role))
	return user, nil
}

func (a *AuthManager) ListUsers(ctx context.Context) ([]domain.UserAccount, error) {
	return a.users.ListUsers(ctx)
}

func (a *AuthManager) SetUserActive(ctx context.Context, email string, active bool) error {
	email = normalizeEmail(email)
	if err := a.users.SetUserActive(ctx, email, active); err != nil {
		return err
	}
	a.logger.Info("user access changed", zap.String("email", email), zap.Bool("active", active))
	return nil
}

func (a *AuthManager) ResetPassword(ctx context.Context, email, password string) error {
	if len(password) < minPasswordLength {
		return fmt.Errorf("%w: password must be at least %d characters", store.ErrInvalidInput, minPasswordLength)
	}
	passwordHash, err := hashPassword(password)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	return a.users.UpdateUserPassword(ctx, normalizeEmail(email), passwordHash)
}

// UpgradeLegacyPasswords hashes any whitelist entry whose password was stored
// in plain text, typically rows inserted by hand. It runs once at startup.
func (a *AuthManager) UpgradeLegacyPasswords(ctx context.Context) (int, error) {
	users, err := a.users.ListUsers(ctx)
	if err != nil {
		return 0, fmt.Errorf("list users: %w", err)
	}
	upgraded := 0
	for _, user := range users {
		if user.PasswordHash == "" || isPasswordHash(user.PasswordHash) {
			continue
		}
		hashed, err := hashPassword(user.PasswordHash)
		if err != nil {
			return upgraded, fmt.Errorf("hash password of %s: %w", user.Email, err)
		}
		if err := a.users.UpdateUserPassword(ctx, user.Email, hashed); err != nil {
			return upgraded, fmt.Errorf("store password of %s: %w", user.Email, err)
		}
		upgraded++
	}
	if upgraded > 0 {
		a.logger.Warn("upgraded plain-text passwords", zap.Int("count", upgraded))
	}
	return upgraded, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func verifyPassword(stored string, input string) bool {
	if stored == "" || strings.TrimSpace(input) == "" || !isPasswordHash(stored) {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(stored), []byte(input)) == nil
}

func hashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(bytes), nil
}

func isPasswordHash(value string) bool {
	return strings.HasPrefix(value, "$2a$") || strings.HasPrefix(value, "$2b$") || strings.HasPrefix(value, "$2y$")
}
