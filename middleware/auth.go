package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"mark2cure/httpx"
	"mark2cure/models"

	"github.com/golang-jwt/jwt/v5"
)

type contextKey string

const UserContextKey contextKey = "user"

// TokenCookie is the cookie carrying the session token.
const TokenCookie = "token"

type Claims struct {
	UserID   uint   `json:"user_id"`
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// UserLoader loads a user with its groups.
type UserLoader interface {
	ByID(ctx context.Context, id uint) (*models.User, error)
}

type Authenticator struct {
	users      UserLoader
	secret     []byte
	expiration time.Duration
}

func NewAuthenticator(users UserLoader, secret string, expiration time.Duration) *Authenticator {
	return &Authenticator{users: users, secret: []byte(secret), expiration: expiration}
}

func (a *Authenticator) Expiration() time.Duration { return a.expiration }

func (a *Authenticator) GenerateToken(user *models.User) (string, error) {
	now := time.Now()
	claims := &Claims{
		UserID:   user.ID,
		Username: user.Username,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(a.expiration)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(a.secret)
}

func (a *Authenticator) ValidateToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (any, error) {
		return a.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, err
	}

	if claims, ok := token.Claims.(*Claims); ok && token.Valid {
		return claims, nil
	}

	return nil, jwt.ErrSignatureInvalid
}

// tokenFromRequest reads the token cookie, then the bearer header.
func tokenFromRequest(r *http.Request) string {
	if cookie, err := r.Cookie(TokenCookie); err == nil && cookie.Value != "" {
		return cookie.Value
	}
	parts := strings.SplitN(r.Header.Get("Authorization"), " ", 2)
	if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
		return strings.TrimSpace(parts[1])
	}
	return ""
}

var errNoToken = errors.New("no token")

func (a *Authenticator) authenticate(r *http.Request) (*models.User, error) {
	tokenString := tokenFromRequest(r)
	if tokenString == "" {
		return nil, errNoToken
	}
	claims, err := a.ValidateToken(tokenString)
	if err != nil {
		return nil, err
	}
	return a.users.ByID(r.Context(), claims.UserID)
}

// RequireAuth rejects requests without a valid token with 401.
func (a *Authenticator) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, err := a.authenticate(r)
		if err != nil {
			if !errors.Is(err, errNoToken) {
				ClearTokenCookie(w)
			}
			httpx.JSONError(w, http.StatusUnauthorized, "authentication required", nil)
			return
		}
		next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), user)))
	})
}

// OptionalAuth attaches the user when a valid token is present and lets
// anonymous requests through.
func (a *Authenticator) OptionalAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if user, err := a.authenticate(r); err == nil {
			r = r.WithContext(WithUser(r.Context(), user))
		}
		next.ServeHTTP(w, r)
	})
}

func (a *Authenticator) SetTokenCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     TokenCookie,
		Value:    token,
		Path:     "/",
		MaxAge:   int(a.expiration.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	})
}

func ClearTokenCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     TokenCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})
}

// RequireGroup allows staff and members of any of the named groups.
func RequireGroup(names ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user := GetUserFromContext(r.Context())
			if user == nil {
				httpx.JSONError(w, http.StatusUnauthorized, "authentication required", nil)
				return
			}
			if user.IsStaff {
				next.ServeHTTP(w, r)
				return
			}
			for _, name := range names {
				if user.InGroup(name) {
					next.ServeHTTP(w, r)
					return
				}
			}
			httpx.JSONError(w, http.StatusForbidden, "Forbidden", nil)
		})
	}
}

func WithUser(ctx context.Context, user *models.User) context.Context {
	return context.WithValue(ctx, UserContextKey, user)
}

func GetUserFromContext(ctx context.Context) *models.User {
	user, ok := ctx.Value(UserContextKey).(*models.User)
	if !ok {
		return nil
	}
	return user
}
