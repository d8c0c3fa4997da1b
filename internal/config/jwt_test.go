package config

import (
	"crypto/rand"
	"crypto/rsa"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestJWT(t *testing.T) *JWT {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	return NewJWTFromKeys(key, &key.PublicKey, time.Minute)
}

func TestJWTSignAndParse(t *testing.T) {
	j := newTestJWT(t)

	token, err := j.Sign(NewPlayerClaims(42, "alice"))
	require.NoError(t, err)

	claims, err := j.ParsePlayerClaims(token)
	require.NoError(t, err)
	assert.Equal(t, int64(42), claims.PlayerId)
	assert.Equal(t, "alice", claims.Username)
	assert.Equal(t, "alice", claims.Subject)
}

func TestJWTRejectsForeignKey(t *testing.T) {
	token, err := newTestJWT(t).Sign(NewPlayerClaims(1, "mallory"))
	require.NoError(t, err)

	_, err = newTestJWT(t).ParsePlayerClaims(token)
	assert.Error(t, err)
}

func TestJWTRejectsExpired(t *testing.T) {
	j := newTestJWT(t)
	j.TokenLifetime = -time.Minute

	token, err := j.Sign(NewPlayerClaims(1, "bob"))
	require.NoError(t, err)

	_, err = j.ParsePlayerClaims(token)
	assert.Error(t, err)
}

func TestCookiesRoundTrip(t *testing.T) {
	t.Setenv("DEVELOPMENT", "1")
	j := newTestJWT(t)
	cookies, err := NewCookies(j)
	require.NoError(t, err)

	token, err := j.Sign(NewPlayerClaims(7, "carol"))
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	require.NoError(t, cookies.Refresh(rec, token))

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, c := range rec.Result().Cookies() {
		r.AddCookie(c)
	}

	claims, err := cookies.ParsePlayerClaims(r)
	require.NoError(t, err)
	assert.Equal(t, int64(7), claims.PlayerId)
}

func TestCookiesBearer(t *testing.T) {
	t.Setenv("DEVELOPMENT", "1")
	j := newTestJWT(t)
	cookies, err := NewCookies(j)
	require.NoError(t, err)

	token, err := j.Sign(NewPlayerClaims(9, "dave"))
	require.NoError(t, err)

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set("Authorization", "Bearer "+token)
	claims, err := cookies.ParsePlayerClaims(r)
	require.NoError(t, err)
	assert.Equal(t, "dave", claims.Username)

	r.Header.Set("Authorization", "Basic Zm9vOmJhcg==")
	_, err = cookies.ParsePlayerClaims(r)
	assert.Error(t, err)

	_, err = cookies.ParsePlayerClaims(httptest.NewRequest(http.MethodGet, "/", nil))
	assert.ErrorIs(t, err, ErrNoCredentials)
}

func TestCookiesRequireDomainInProduction(t *testing.T) {
	t.Setenv("DEVELOPMENT", "0")
	_, err := NewCookies(newTestJWT(t))
	assert.Error(t, err)

	t.Setenv("COOKIES_DOMAIN", "example.com")
	t.Setenv("COOKIES_SAMESITE", "bogus")
	_, err = NewCookies(newTestJWT(t))
	assert.Error(t, err)
}
