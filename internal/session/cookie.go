package session

import (
	"errors"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const CookieName = "mudskip_session"

var ErrInvalidCookie = errors.New("invalid session cookie")

var parseJWT = func(tokenStr string, keyFunc jwt.Keyfunc) (*jwt.Token, error) {
	return jwt.Parse(tokenStr, keyFunc, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
}

// CookieCodec signs session ids so a tampered cookie is rejected without a
// store lookup. The signature carries no expiry; idle expiry lives in the store.
type CookieCodec struct {
	Secret []byte
	Secure bool
}

func (c CookieCodec) Encode(sessionID string) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sid": sessionID,
		"iat": time.Now().Unix(),
	})
	return token.SignedString(c.Secret)
}

func (c CookieCodec) Decode(value string) (string, error) {
	token, err := parseJWT(value, func(*jwt.Token) (interface{}, error) {
		return c.Secret, nil
	})
	if err != nil || !token.Valid {
		return "", ErrInvalidCookie
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", ErrInvalidCookie
	}
	sid, ok := claims["sid"].(string)
	if !ok || sid == "" {
		return "", ErrInvalidCookie
	}
	return sid, nil
}

// Write sets the session cookie for sessionID on the response.
func (c CookieCodec) Write(w http.ResponseWriter, sessionID string) error {
	value, err := c.Encode(sessionID)
	if err != nil {
		return err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    value,
		Path:     "/",
		HttpOnly: true,
		Secure:   c.Secure,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

// Clear expires the session cookie on the client.
func (c CookieCodec) Clear(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   c.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// Read returns the session id carried by the request, if any.
func (c CookieCodec) Read(r *http.Request) (string, error) {
	cookie, err := r.Cookie(CookieName)
	if err != nil {
		return "", http.ErrNoCookie
	}
	return c.Decode(cookie.Value)
}
