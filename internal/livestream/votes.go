package livestream

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"strconv"

	"github.com/magabrotheeeer/coffeehouse/internal/cache"
	"github.com/magabrotheeeer/coffeehouse/internal/catalog"
	"github.com/magabrotheeeer/coffeehouse/internal/lib/apperr"
	"github.com/magabrotheeeer/coffeehouse/internal/models"
)

// VotesKey ключ sorted set с голосами.
const VotesKey = "live:votes"

// ScoreStore хранилище счётчиков голосов.
type ScoreStore interface {
	SeedScores(ctx context.Context, key string, scores []cache.Score) error
	IncrScore(ctx context.Context, key, member string, delta int64) (int64, error)
	Scores(ctx context.Context, key string) ([]cache.Score, error)
}

// Tally подсчёт голосов за песни эфира.
type Tally struct {
	store ScoreStore
}

// NewTally создаёт подсчёт голосов поверх store.
func NewTally(store ScoreStore) *Tally {
	return &Tally{store: store}
}

func (t *Tally) seed(ctx context.Context) error {
	songs := catalog.Songs()
	scores := make([]cache.Score, 0, len(songs))
	for _, s := range songs {
		scores = append(scores, cache.Score{Member: strconv.Itoa(s.ID), Value: s.Votes})
	}
	// ZADD NX не перезаписывает накопленные голоса
	return t.store.SeedScores(ctx, VotesKey, scores)
}

// Songs возвращает песни по убыванию голосов, при равенстве по возрастанию id.
func (t *Tally) Songs(ctx context.Context) ([]models.Song, error) {
	const op = "livestream.Songs"
	if err := t.seed(ctx); err != nil {
		return nil, apperr.Wrap(apperr.ErrStore, op, err)
	}
	scores, err := t.store.Scores(ctx, VotesKey)
	if err != nil {
		return nil, apperr.Wrap(apperr.ErrStore, op, err)
	}

	votes := make(map[int]int64, len(scores))
	for _, s := range scores {
		id, err := strconv.Atoi(s.Member)
		if err != nil {
			continue
		}
		votes[id] = s.Value
	}

	songs := catalog.Songs()
	for i := range songs {
		if v, ok := votes[songs[i].ID]; ok {
			songs[i].Votes = v
		}
	}
	slices.SortStableFunc(songs, func(a, b models.Song) int {
		if c := cmp.Compare(b.Votes, a.Votes); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
	return songs, nil
}

// Vote добавляет голос за песню и возвращает новый рейтинг.
func (t *Tally) Vote(ctx context.Context, songID int) ([]models.Song, error) {
	const op = "livestream.Vote"
	if _, ok := catalog.FindSong(songID); !ok {
		return nil, apperr.Validation(op, fmt.Sprintf("unknown song %d", songID))
	}
	if err := t.seed(ctx); err != nil {
		return nil, apperr.Wrap(apperr.ErrStore, op, err)
	}
	if _, err := t.store.IncrScore(ctx, VotesKey, strconv.Itoa(songID), 1); err != nil {
		return nil, apperr.Wrap(apperr.ErrStore, op, err)
	}
	return t.Songs(ctx)
}
