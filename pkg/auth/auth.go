package auth

import (
	"context"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/pkg/errors"
)

const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")
	ErrWrongType    = errors.New("wrong token type")
)

type Config struct {
	Key        string        `yaml:"key" envconfig:"JWT_KEY" default:"biblioteca-dev-key"`
	AccessTTL  time.Duration `yaml:"accessTTL" envconfig:"JWT_ACCESS_TTL" default:"15m"`
	RefreshTTL time.Duration `yaml:"refreshTTL" envconfig:"JWT_REFRESH_TTL" default:"720h"`
}

type Claims struct {
	Profile struct {
		Username string `json:"username"`
		Role     string `json:"role"`
	} `json:"profile"`
	Email     string `json:"email,omitempty"`
	TokenType string `json:"tokenType"`
	jwt.RegisteredClaims
}

// Manager issues and verifies HS256 access/refresh token pairs.
type Manager struct {
	key        []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
}

func NewManager(cfg Config) *Manager {
	return &Manager{
		key:        []byte(cfg.Key),
		accessTTL:  cfg.AccessTTL,
		refreshTTL: cfg.RefreshTTL,
	}
}

func (m *Manager) IssuePair(username, role, email string) (string, string, error) {
	access, err := m.issue(username, role, email, TokenTypeAccess, m.accessTTL)
	if err != nil {
		return "", "", err
	}
	refresh, err := m.issue(username, role, email, TokenTypeRefresh, m.refreshTTL)
	if err != nil {
		return "", "", err
	}
	return access, refresh, nil
}

func (m *Manager) issue(username, role, email, tokenType string, ttl time.Duration) (string, error) {
	claims := &Claims{
		Email:     email,
		TokenType: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
		},
	}
	claims.Profile.Username = username
	claims.Profile.Role = role

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.key)
}

// Parse verifies the signature and expiry of a token of the given type.
func (m *Manager) Parse(tokenStr, tokenType string) (*Claims, error) {
	claims := new(Claims)
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return m.key, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrInvalidToken
	}
	if !token.Valid {
		return nil, ErrInvalidToken
	}
	if claims.TokenType != tokenType {
		return nil, ErrWrongType
	}
	return claims, nil
}

type contextKey int

const (
	usernameKey contextKey = iota + 1
	roleKey
)

const (
	XUserNameHeader = "X-User-Name"
	XUserRoleHeader = "X-User-Role"
)

func SetAuthContext(ctx context.Context, username, role string) context.Context {
	ctx = context.WithValue(ctx, usernameKey, username)
	return context.WithValue(ctx, roleKey, role)
}

func UsernameFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(usernameKey).(string); ok {
		return v
	}
	return ""
}

func RoleFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(roleKey).(string); ok {
		return v
	}
	return ""
}
