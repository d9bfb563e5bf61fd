// Package session хранит состояние входа посетителя между перезагрузками страницы.
//
// Сессия привязана к идентификатору из cookie и лежит в Redis под ключом
// session:<sid>. Читать и изменять её следует только через Store.
package session

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/magabrotheeeer/coffeehouse/internal/lib/sl"
	"github.com/magabrotheeeer/coffeehouse/internal/models"
)

// KV описывает хранилище ключ-значение, в котором лежат сессии.
type KV interface {
	Get(ctx context.Context, key string, result any) (bool, error)
	Set(ctx context.Context, key string, value any, expiration time.Duration) error
	Invalidate(ctx context.Context, key string) error
}

// Store единственный владелец сессий посетителей.
type Store struct {
	kv  KV
	ttl time.Duration
	log *slog.Logger
}

// NewStore создаёт хранилище сессий с заданным временем жизни записи.
func NewStore(kv KV, ttl time.Duration, log *slog.Logger) *Store {
	return &Store{
		kv:  kv,
		ttl: ttl,
		log: log,
	}
}

func key(sid string) string {
	return "session:" + sid
}

// Set сохраняет сессию. Признак входа выставляется только при непустом email.
func (s *Store) Set(ctx context.Context, sid, name, email, walletAddress string) error {
	const op = "session.Set"
	if sid == "" {
		return fmt.Errorf("%s: empty session id", op)
	}
	sess := models.NewSession(name, email, walletAddress)
	if err := s.kv.Set(ctx, key(sid), sess, s.ttl); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// Get возвращает сессию или пустую сессию, если ничего не сохранено.
// Ошибки хранилища логируются, посетитель при этом считается анонимным.
func (s *Store) Get(ctx context.Context, sid string) models.Session {
	if sid == "" {
		return models.Session{}
	}
	var sess models.Session
	found, err := s.kv.Get(ctx, key(sid), &sess)
	if err != nil {
		s.log.Warn("failed to read session, treating as empty", slog.String("op", "session.Get"), sl.Err(err))
		return models.Session{}
	}
	if !found {
		return models.Session{}
	}
	// запись могла быть изменена в обход Store
	if sess.Email == "" {
		sess.IsAuthenticated = false
	}
	return sess
}

// Clear полностью удаляет сессию.
func (s *Store) Clear(ctx context.Context, sid string) error {
	const op = "session.Clear"
	if sid == "" {
		return nil
	}
	if err := s.kv.Invalidate(ctx, key(sid)); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
