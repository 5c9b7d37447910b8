package api

import (
	"crypto/subtle"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/rpupo63/portfolio-backend/errs"
)

const tokenIssuer = "portfolio-backend"

// AdminClaims are carried by the dashboard's bearer token.
type AdminClaims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

type AuthConfig struct {
	Secret       string
	AdminEmail   string
	PasswordHash string
	TTL          time.Duration
}

// Authenticator signs the single admin in and out. Revoked token IDs are kept
// in memory until the token would have expired anyway.
type Authenticator struct {
	secret       []byte
	adminEmail   string
	passwordHash []byte
	ttl          time.Duration
	now          func() time.Time

	mu      sync.Mutex
	revoked map[string]time.Time
}

func NewAuthenticator(cfg AuthConfig) *Authenticator {
	if cfg.TTL <= 0 {
		cfg.TTL = 12 * time.Hour
	}
	return &Authenticator{
		secret:       []byte(cfg.Secret),
		adminEmail:   strings.ToLower(strings.TrimSpace(cfg.AdminEmail)),
		passwordHash: []byte(cfg.PasswordHash),
		ttl:          cfg.TTL,
		now:          time.Now,
		revoked:      make(map[string]time.Time),
	}
}

// CheckConfig reports an error when sign-in cannot work.
func (a *Authenticator) CheckConfig() error {
	if len(a.secret) == 0 || len(a.passwordHash) == 0 || a.adminEmail == "" {
		return errs.NewServiceUnavailableError("admin authentication")
	}
	return nil
}

// SignIn checks the credentials and issues a signed token.
func (a *Authenticator) SignIn(email, password string) (string, time.Time, error) {
	if err := a.CheckConfig(); err != nil {
		return "", time.Time{}, err
	}

	emailMatches := subtle.ConstantTimeCompare([]byte(strings.ToLower(strings.TrimSpace(email))), []byte(a.adminEmail)) == 1
	passwordErr := bcrypt.CompareHashAndPassword(a.passwordHash, []byte(password))
	if !emailMatches || passwordErr != nil {
		return "", time.Time{}, errs.NewInvalidCredentialsError()
	}

	now := a.now()
	expiresAt := now.Add(a.ttl)
	claims := AdminClaims{
		Email: a.adminEmail,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    tokenIssuer,
			Subject:   a.adminEmail,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(a.secret)
	if err != nil {
		return "", time.Time{}, errs.NewInternalErrorWithCause("failed to sign token", err)
	}
	return token, expiresAt, nil
}

// Verify parses a bearer token and rejects revoked ones.
func (a *Authenticator) Verify(tokenString string) (*AdminClaims, error) {
	if err := a.CheckConfig(); err != nil {
		return nil, err
	}
	if tokenString == "" {
		return nil, errs.NewMissingTokenError()
	}

	claims := &AdminClaims{}
	_, err := jwt.ParseWithClaims(tokenString, claims,
		func(*jwt.Token) (interface{}, error) { return a.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(tokenIssuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(a.now),
	)
	if err != nil {
		return nil, errs.NewInvalidTokenError(err)
	}

	a.mu.Lock()
	_, revoked := a.revoked[claims.ID]
	a.mu.Unlock()
	if revoked {
		return nil, errs.NewRevokedTokenError()
	}
	return claims, nil
}

// Revoke denies the token's ID until it expires.
func (a *Authenticator) Revoke(claims *AdminClaims) {
	if claims == nil || claims.ID == "" {
		return
	}
	expiresAt := a.now().Add(a.ttl)
	if claims.ExpiresAt != nil {
		expiresAt = claims.ExpiresAt.Time
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	now := a.now()
	for id, exp := range a.revoked {
		if exp.Before(now) {
			delete(a.revoked, id)
		}
	}
	a.revoked[claims.ID] = expiresAt
}

// LoginLimiter rate-limits failed sign-in attempts per IP address.
type LoginLimiter struct {
	mu       sync.Mutex
	attempts map[string][]time.Time
	max      int
	window   time.Duration
	now      func() time.Time
}

// NewLoginLimiter creates a LoginLimiter that allows max failed attempts per window.
func NewLoginLimiter(max int, window time.Duration) *LoginLimiter {
	return &LoginLimiter{
		attempts: make(map[string][]time.Time),
		max:      max,
		window:   window,
		now:      time.Now,
	}
}

// Check returns true if the IP has not exceeded the rate limit.
// It does not record an attempt; call Record on failure.
func (l *LoginLimiter) Check(ip string) bool {
	cutoff := l.now().Add(-l.window)

	l.mu.Lock()
	defer l.mu.Unlock()

	kept := l.prune(l.attempts[ip], cutoff)
	if len(kept) == 0 {
		delete(l.attempts, ip)
	} else {
		l.attempts[ip] = kept
	}
	return len(kept) < l.max
}

// Record registers a failed sign-in attempt for the given IP.
func (l *LoginLimiter) Record(ip string) {
	now := l.now()

	l.mu.Lock()
	defer l.mu.Unlock()

	if len(l.attempts) > 1024 {
		cutoff := now.Add(-l.window)
		for key, hits := range l.attempts {
			if kept := l.prune(hits, cutoff); len(kept) == 0 {
				delete(l.attempts, key)
			} else {
				l.attempts[key] = kept
			}
		}
	}
	l.attempts[ip] = append(l.attempts[ip], now)
}

// Reset forgets the IP after a successful sign-in.
func (l *LoginLimiter) Reset(ip string) {
	l.mu.Lock()
	delete(l.attempts, ip)
	l.mu.Unlock()
}

func (l *LoginLimiter) prune(hits []time.Time, cutoff time.Time) []time.Time {
	kept := hits[:0]
	for _, t := range hits {
		if t.After(cutoff) {
			kept = append(kept, t)
		}
	}
	return kept
}
