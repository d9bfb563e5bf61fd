package jwt

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// StateClaims данные, переносимые через провайдера входа.
type StateClaims struct {
	DisplayName          string `json:"display_name"`
	Nonce                string `json:"nonce"`
	jwt.RegisteredClaims        // ExpiresAt, IssuedAt и пр.
}

// GenerateState создаёт подписанный токен состояния.
func (j *MakerImpl) GenerateState(displayName, nonce string) (string, error) {
	now := time.Now()
	claims := StateClaims{
		DisplayName: displayName,
		Nonce:       nonce,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(j.tokenTTL)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(j.secretKey))
}

// ParseState проверяет подпись и срок действия токена и возвращает его claims.
func (j *MakerImpl) ParseState(tokenStr string) (*StateClaims, error) {
	const op = "jwt.ParseState"
	token, err := jwt.ParseWithClaims(tokenStr, &StateClaims{}, func(_ *jwt.Token) (any, error) {
		return []byte(j.secretKey), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	claims, ok := token.Claims.(*StateClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("%s: invalid token", op)
	}
	return claims, nil
}
