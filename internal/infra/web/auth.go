package web

import (
	"crypto/subtle"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const sessionCookie = "coupon_admin_session"

var errNoToken = errors.New("missing or invalid session token")

// AuthManager mints and verifies the admin session JWT. The token is
// delivered both as an HttpOnly cookie for browser use and in the login
// response body for API clients sending it as a bearer token.
type AuthManager struct {
	secret   []byte
	password string
	secure   bool
	ttl      time.Duration
}

func NewAuthManager(secret, password string, secure bool, ttl time.Duration) *AuthManager {
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	return &AuthManager{
		secret:   []byte(secret),
		password: password,
		secure:   secure,
		ttl:      ttl,
	}
}

// VerifyPassword checks the shared admin password in constant time.
func (a *AuthManager) VerifyPassword(candidate string) bool {
	if a.password == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(candidate), []byte(a.password)) == 1
}

type sessionClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// Mint signs a fresh admin session, sets the cookie and returns the
// signed token for bearer use.
func (a *AuthManager) Mint(w http.ResponseWriter) (string, error) {
	now := time.Now()
	claims := sessionClaims{
		Role: "admin",
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(a.ttl)),
			Subject:   "admin",
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(a.secret)
	if err != nil {
		return "", err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    signed,
		Path:     "/",
		MaxAge:   int(a.ttl.Seconds()),
		HttpOnly: true,
		Secure:   a.secure,
		SameSite: http.SameSiteStrictMode,
	})
	return signed, nil
}

func (a *AuthManager) Clear(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   a.secure,
		SameSite: http.SameSiteStrictMode,
	})
}

// Authenticate accepts either a bearer token or the session cookie.
func (a *AuthManager) Authenticate(r *http.Request) error {
	if hdr := r.Header.Get("Authorization"); hdr != "" {
		if strings.HasPrefix(strings.ToLower(hdr), "bearer ") {
			return a.verify(strings.TrimSpace(hdr[7:]))
		}
	}
	if c, err := r.Cookie(sessionCookie); err == nil {
		return a.verify(c.Value)
	}
	return errNoToken
}

func (a *AuthManager) verify(tok string) error {
	claims := &sessionClaims{}
	tkn, err := jwt.ParseWithClaims(tok, claims, func(t *jwt.Token) (any, error) {
		return a.secret, nil
	})
	if err != nil || !tkn.Valid || claims.Role != "admin" {
		return errNoToken
	}
	return nil
}
