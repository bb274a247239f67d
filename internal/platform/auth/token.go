package auth

import (
	"errors"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const refreshTokenType = "refresh"

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrNotRefresh   = errors.New("not a refresh token")
)

type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// Claims is the decoded identity carried by an access token.
type Claims struct {
	UserID int64
	Email  string
	Role   Role
}

// IssueTokenPair signs an HS256 access token plus a longer-lived
// refresh token.
func IssueTokenPair(secret []byte, userID int64, email string, role Role, accessTTL, refreshTTL time.Duration, now time.Time) (TokenPair, error) {
	access := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":   strconv.FormatInt(userID, 10),
		"email": email,
		"role":  string(role),
		"exp":   now.Add(accessTTL).Unix(),
	})
	accessStr, err := access.SignedString(secret)
	if err != nil {
		return TokenPair{}, err
	}

	refresh := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": strconv.FormatInt(userID, 10),
		"typ": refreshTokenType,
		"exp": now.Add(refreshTTL).Unix(),
	})
	refreshStr, err := refresh.SignedString(secret)
	if err != nil {
		return TokenPair{}, err
	}

	return TokenPair{AccessToken: accessStr, RefreshToken: refreshStr}, nil
}

// ParseAccessToken validates signature and expiry and returns the
// identity claims.
func ParseAccessToken(secret []byte, tokenStr string) (*Claims, error) {
	mc, err := parse(secret, tokenStr)
	if err != nil {
		return nil, err
	}
	if typ, _ := mc["typ"].(string); typ == refreshTokenType {
		return nil, ErrInvalidToken
	}

	userID, err := subjectID(mc)
	if err != nil {
		return nil, err
	}
	email, _ := mc["email"].(string)
	roleStr, _ := mc["role"].(string)
	return &Claims{UserID: userID, Email: email, Role: Role(roleStr)}, nil
}

// ParseRefreshToken validates a refresh token and returns the user id.
func ParseRefreshToken(secret []byte, tokenStr string) (int64, error) {
	mc, err := parse(secret, tokenStr)
	if err != nil {
		return 0, err
	}
	if typ, _ := mc["typ"].(string); typ != refreshTokenType {
		return 0, ErrNotRefresh
	}
	return subjectID(mc)
}

func parse(secret []byte, tokenStr string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (any, error) {
		// Pin the algorithm, rejects alg=none tricks.
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || token == nil || !token.Valid {
		return nil, ErrInvalidToken
	}
	mc, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrInvalidToken
	}
	return mc, nil
}

func subjectID(mc jwt.MapClaims) (int64, error) {
	sub, ok := mc["sub"].(string)
	if !ok || sub == "" {
		return 0, ErrInvalidToken
	}
	id, err := strconv.ParseInt(sub, 10, 64)
	if err != nil || id <= 0 {
		return 0, ErrInvalidToken
	}
	return id, nil
}
