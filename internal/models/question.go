package models

import "time"

// Question вопрос или предложение, отправленное через форму "Ask Reg".
type Question struct {
	ID         int64     `json:"id"`
	Type       string    `json:"type" validate:"required,oneof=question artist interview"`
	Name       string    `json:"name" validate:"max=100"`
	Email      string    `json:"email" validate:"omitempty,email"`
	Content    string    `json:"content" validate:"required,max=2000"`
	ArtistName string    `json:"artist_name,omitempty" validate:"max=200"`
	ArtistLink string    `json:"artist_link,omitempty" validate:"omitempty,url"`
	CreatedAt  time.Time `json:"created_at"`
}

// NewsletterSubscriber адрес, подписанный на рассылку.
type NewsletterSubscriber struct {
	ID        int64     `json:"id"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}
