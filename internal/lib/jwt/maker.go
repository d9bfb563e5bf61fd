// Package jwt подписывает и проверяет короткоживущие токены состояния входа.
//
// Токен кладётся в cookie перед переходом к провайдеру и возвращается
// в обработчик callback: так между двумя запросами переносятся
// выбранное пользователем имя и nonce для проверки ID-токена.
package jwt

import (
	"time"
)

// Maker описывает генерацию и разбор токенов состояния входа.
type Maker interface {
	GenerateState(displayName, nonce string) (string, error)
	ParseState(tokenStr string) (*StateClaims, error)
}

// MakerImpl реализует Maker с секретным ключом и временем жизни токена.
type MakerImpl struct {
	secretKey string        // Секретный ключ для подписи токенов.
	tokenTTL  time.Duration // Время жизни токена.
}

// NewJWTMaker создаёт новый экземпляр MakerImpl на основе секретного ключа и TTL.
func NewJWTMaker(secretKey string, ttl time.Duration) *MakerImpl {
	return &MakerImpl{
		secretKey: secretKey,
		tokenTTL:  ttl,
	}
}
