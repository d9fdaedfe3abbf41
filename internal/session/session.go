package session

import (
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

// Session is the client's record of an authenticated identity.
type Session struct {
	Token       string `json:"token"`
	UserID      string `json:"userId"`
	DisplayName string `json:"displayName"`
}

// Complete reports whether the session satisfies the store invariant:
// a token is only ever persisted together with the user id and display
// name it belongs to.
func (s Session) Complete() bool {
	return s.Token != "" && s.UserID != "" && s.DisplayName != ""
}

// TokenUserID reads the user_id claim without verifying the signature.
// The client has no signing key; a stale or forged token simply earns
// a 401 on the next call.
func TokenUserID(token string) (string, bool) {
	claims, err := peekClaims(token)
	if err != nil {
		return "", false
	}
	switch v := claims["user_id"].(type) {
	case string:
		return v, true
	case float64:
		return strconv.Itoa(int(v)), true
	default:
		return "", false
	}
}

// TokenExpiry reads the exp claim without verifying the signature.
func TokenExpiry(token string) (time.Time, bool) {
	claims, err := peekClaims(token)
	if err != nil {
		return time.Time{}, false
	}
	exp, ok := claims["exp"].(float64)
	if !ok {
		return time.Time{}, false
	}
	return time.Unix(int64(exp), 0), true
}

func peekClaims(token string) (jwt.MapClaims, error) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return nil, err
	}
	return claims, nil
}
