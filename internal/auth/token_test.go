package auth

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "0123456789abcdef0123456789abcdef"

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func newTestIssuer(t *testing.T, clock *fakeClock) *Issuer {
	t.Helper()
	issuer, err := NewIssuer(Config{Secret: testSecret, Issuer: "workoutlog-test", TTL: time.Hour}, WithClock(clock.Now))
	require.NoError(t, err)
	return issuer
}

func TestIssueThenVerify(t *testing.T) {
	clock := &fakeClock{now: time.Date(2026, time.March, 3, 9, 0, 0, 0, time.UTC)}
	issuer := newTestIssuer(t, clock)

	token, expiresAt, err := issuer.Issue("user-1", ScopeCatalogWrite)
	require.NoError(t, err)
	assert.True(t, clock.now.Add(time.Hour).Equal(expiresAt))

	claims, err := issuer.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.Subject)
	assert.True(t, claims.HasScope(ScopeCatalogWrite))
	assert.True(t, clock.now.Equal(claims.IssuedAt))
	assert.True(t, expiresAt.Equal(claims.ExpiresAt))
}

func TestVerifyExpiredToken(t *testing.T) {
	clock := &fakeClock{now: time.Date(2026, time.March, 3, 9, 0, 0, 0, time.UTC)}
	issuer := newTestIssuer(t, clock)

	token, _, err := issuer.Issue("user-1")
	require.NoError(t, err)

	clock.Advance(59 * time.Minute)
	_, err = issuer.Verify(token)
	require.NoError(t, err)

	clock.Advance(time.Minute + time.Second)
	_, err = issuer.Verify(token)
	require.ErrorIs(t, err, ErrTokenExpired)
	assert.NotErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyTamperedSignature(t *testing.T) {
	clock := &fakeClock{now: time.Now()}
	issuer := newTestIssuer(t, clock)

	token, _, err := issuer.Issue("user-1")
	require.NoError(t, err)

	parts := strings.Split(token, ".")
	require.Len(t, parts, 3)
	sig := []byte(parts[2])
	mid := len(sig) / 2
	if sig[mid] == 'A' {
		sig[mid] = 'B'
	} else {
		sig[mid] = 'A'
	}
	tampered := strings.Join([]string{parts[0], parts[1], string(sig)}, ".")

	_, err = issuer.Verify(tampered)
	require.ErrorIs(t, err, ErrInvalidToken)
	assert.NotErrorIs(t, err, ErrTokenExpired)
}

func TestVerifyRejectsForeignTokens(t *testing.T) {
	clock := &fakeClock{now: time.Now()}
	issuer := newTestIssuer(t, clock)

	other, err := NewIssuer(Config{Secret: "another-secret-another-secret-xx", Issuer: "workoutlog-test"}, WithClock(clock.Now))
	require.NoError(t, err)
	foreign, _, err := other.Issue("user-1")
	require.NoError(t, err)

	_, err = issuer.Verify(foreign)
	require.ErrorIs(t, err, ErrInvalidToken)

	wrongIssuer, err := NewIssuer(Config{Secret: testSecret, Issuer: "someone-else"}, WithClock(clock.Now))
	require.NoError(t, err)
	token, _, err := wrongIssuer.Issue("user-1")
	require.NoError(t, err)
	_, err = issuer.Verify(token)
	require.ErrorIs(t, err, ErrInvalidToken)

	_, err = issuer.Verify("not.a.jwt")
	require.ErrorIs(t, err, ErrInvalidToken)

	_, err = issuer.Verify("   ")
	require.ErrorIs(t, err, ErrMissingToken)
}

func TestVerifyRejectsOtherAlgorithms(t *testing.T) {
	claims := jwt.RegisteredClaims{
		Subject:   "user-1",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}
	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = Parse(unsigned, Config{Secret: testSecret})
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyRequiresSubject(t *testing.T) {
	claims := jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)

	_, err = Parse(token, Config{Secret: testSecret})
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestNewIssuerRequiresSecret(t *testing.T) {
	_, err := NewIssuer(Config{Secret: " "})
	require.Error(t, err)

	issuer, err := NewIssuer(Config{Secret: testSecret})
	require.NoError(t, err)
	assert.Equal(t, DefaultTTL, issuer.cfg.TTL)
}
