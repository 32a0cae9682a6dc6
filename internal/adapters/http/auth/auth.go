// Package auth signs the single administrator in and guards the admin
// surfaces with a JWT session cookie.
package auth

import (
	"crypto/subtle"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// Sentinel errors for sign-in and token checks.
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid or expired token")
	ErrNoSecret           = errors.New("jwt secret required")
)

const (
	defaultCookieName = "token"
	defaultTTL        = 7 * 24 * time.Hour
	issuer            = "presale-admin"
)

// Claims carried by the session token.
type Claims struct {
	jwt.RegisteredClaims
}

// Authenticator issues and verifies admin sessions.
type Authenticator struct {
	secret       []byte
	identifier   string
	passwordHash []byte
	ttl          time.Duration
	cookieName   string
	secureCookie bool
	disabled     bool
	now          func() time.Time
}

// Option applies a configuration option to the Authenticator.
type Option func(*Authenticator)

// WithAdmin sets the admin identifier and its bcrypt password hash.
func WithAdmin(identifier, passwordHash string) Option {
	return func(a *Authenticator) {
		a.identifier = strings.TrimSpace(identifier)
		a.passwordHash = []byte(passwordHash)
	}
}

// WithTTL sets the session lifetime.
func WithTTL(ttl time.Duration) Option {
	return func(a *Authenticator) {
		if ttl > 0 {
			a.ttl = ttl
		}
	}
}

// WithCookieName overrides the session cookie name.
func WithCookieName(name string) Option {
	return func(a *Authenticator) {
		if name = strings.TrimSpace(name); name != "" {
			a.cookieName = name
		}
	}
}

// WithSecureCookie marks the session cookie Secure.
func WithSecureCookie(secure bool) Option {
	return func(a *Authenticator) {
		a.secureCookie = secure
	}
}

// WithClock sets the time source for issuing and validating tokens.
func WithClock(now func() time.Time) Option {
	return func(a *Authenticator) {
		if now != nil {
			a.now = now
		}
	}
}

// New creates an Authenticator signing HS256 tokens with secret.
func New(secret string, opts ...Option) (*Authenticator, error) {
	if secret == "" {
		return nil, ErrNoSecret
	}
	a := &Authenticator{
		secret:     []byte(secret),
		ttl:        defaultTTL,
		cookieName: defaultCookieName,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a, nil
}

// Disabled returns an Authenticator that treats every request as signed in.
func Disabled() *Authenticator {
	return &Authenticator{disabled: true, cookieName: defaultCookieName, ttl: defaultTTL, now: time.Now}
}

// Enabled reports whether sessions are enforced.
func (a *Authenticator) Enabled() bool {
	return !a.disabled
}

// CookieName returns the session cookie name.
func (a *Authenticator) CookieName() string {
	return a.cookieName
}

// HashPassword returns the bcrypt hash of password for configuration.
func HashPassword(password string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(b), nil
}

// SignIn checks the credentials and issues a session token. A disabled
// Authenticator accepts anything and issues no token.
func (a *Authenticator) SignIn(identifier, password string) (string, time.Time, error) {
	if a.disabled {
		return "", time.Time{}, nil
	}
	idOK := subtle.ConstantTimeCompare([]byte(strings.TrimSpace(identifier)), []byte(a.identifier)) == 1
	if a.identifier == "" || len(a.passwordHash) == 0 {
		return "", time.Time{}, ErrInvalidCredentials
	}
	pwErr := bcrypt.CompareHashAndPassword(a.passwordHash, []byte(password))
	if !idOK || pwErr != nil {
		return "", time.Time{}, ErrInvalidCredentials
	}
	return a.Issue(a.identifier)
}

// Issue signs a token for subject and returns it with its expiry.
func (a *Authenticator) Issue(subject string) (string, time.Time, error) {
	now := a.now()
	exp := now.Add(a.ttl)
	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    issuer,
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now.Add(-1 * time.Minute)),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := tok.SignedString(a.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}
	return signed, exp, nil
}

// Verify parses tokenStr and returns its claims.
func (a *Authenticator) Verify(tokenStr string) (*Claims, error) {
	if tokenStr == "" || len(a.secret) == 0 {
		return nil, ErrInvalidToken
	}
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithTimeFunc(a.now),
	)
	tok, err := parser.ParseWithClaims(tokenStr, &Claims{}, func(*jwt.Token) (interface{}, error) {
		return a.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
	if !tok.Valid {
		return nil, ErrInvalidToken
	}
	claims, ok := tok.Claims.(*Claims)
	if !ok {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// Authenticated reports whether r carries a valid session cookie.
func (a *Authenticator) Authenticated(r *http.Request) bool {
	if a.disabled {
		return true
	}
	c, err := r.Cookie(a.cookieName)
	if err != nil {
		return false
	}
	_, err = a.Verify(c.Value)
	return err == nil
}

// SetCookie stores token as an httpOnly session cookie.
func (a *Authenticator) SetCookie(w http.ResponseWriter, token string, expires time.Time) {
	http.SetCookie(w, &http.Cookie{
		Name:     a.cookieName,
		Value:    token,
		Path:     "/",
		Expires:  expires,
		MaxAge:   int(a.ttl.Seconds()),
		HttpOnly: true,
		Secure:   a.secureCookie,
		SameSite: http.SameSiteLaxMode,
	})
}

// ClearCookie removes the session cookie.
func (a *Authenticator) ClearCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     a.cookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   a.secureCookie,
		SameSite: http.SameSiteLaxMode,
	})
}

// Require rejects requests without a valid session using deny.
func (a *Authenticator) Require(deny http.HandlerFunc) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !a.Authenticated(r) {
				deny(w, r)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
