// Package models содержит доменные структуры сервиса: сессию посетителя,
// записи подписчиков, покупок, приглашений на события и вопросов,
// а также элементы статического каталога.
package models

// Session описывает состояние входа конкретного браузера.
// IsAuthenticated истинно только при непустом Email.
type Session struct {
	DisplayName     string `json:"display_name"`
	IsAuthenticated bool   `json:"is_authenticated"`
	WalletAddress   string `json:"wallet_address,omitempty"`
	Email           string `json:"email,omitempty"`
}

// NewSession собирает сессию, выводя признак входа из наличия email.
func NewSession(name, email, walletAddress string) Session {
	return Session{
		DisplayName:     name,
		IsAuthenticated: email != "",
		WalletAddress:   walletAddress,
		Email:           email,
	}
}

// Identity данные, подтверждённые внешним провайдером входа.
type Identity struct {
	Address string
	Email   string
}
