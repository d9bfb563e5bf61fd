package livestream

import (
	"context"
	"strconv"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/coffeehouse/internal/cache"
	"github.com/magabrotheeeer/coffeehouse/internal/catalog"
	"github.com/magabrotheeeer/coffeehouse/internal/config"
	"github.com/magabrotheeeer/coffeehouse/internal/lib/apperr"
	"github.com/magabrotheeeer/coffeehouse/internal/models"
)

func setupTally(t *testing.T) (*Tally, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	c, err := cache.InitServer(context.Background(), config.RedisConnection{AddressRedis: mr.Addr()})
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	return NewTally(c), mr
}

func assertRanked(t *testing.T, songs []models.Song) {
	t.Helper()
	for i := 1; i < len(songs); i++ {
		prev, cur := songs[i-1], songs[i]
		if prev.Votes == cur.Votes {
			assert.Less(t, prev.ID, cur.ID)
			continue
		}
		assert.Greater(t, prev.Votes, cur.Votes)
	}
}

func TestTally_SongsSeedsFromCatalog(t *testing.T) {
	tally, mr := setupTally(t)

	songs, err := tally.Songs(context.Background())
	require.NoError(t, err)
	require.Len(t, songs, len(catalog.Songs()))
	assertRanked(t, songs)

	members, err := mr.ZMembers(VotesKey)
	require.NoError(t, err)
	assert.Len(t, members, len(catalog.Songs()))
}

func TestTally_VoteReordersRanking(t *testing.T) {
	tally, _ := setupTally(t)
	ctx := context.Background()

	initial, err := tally.Songs(ctx)
	require.NoError(t, err)
	last := initial[len(initial)-1]
	gap := initial[0].Votes - last.Votes

	var ranked []models.Song
	for i := int64(0); i <= gap; i++ {
		ranked, err = tally.Vote(ctx, last.ID)
		require.NoError(t, err)
	}

	assert.Equal(t, last.ID, ranked[0].ID)
	assert.Equal(t, last.Votes+gap+1, ranked[0].Votes)
	assertRanked(t, ranked)
}

func TestTally_VotesSurviveReseed(t *testing.T) {
	tally, _ := setupTally(t)
	ctx := context.Background()
	song := catalog.Songs()[0]

	_, err := tally.Vote(ctx, song.ID)
	require.NoError(t, err)

	songs, err := tally.Songs(ctx)
	require.NoError(t, err)
	for _, s := range songs {
		if s.ID == song.ID {
			assert.Equal(t, song.Votes+1, s.Votes)
		}
	}
}

func TestTally_TiesOrderedByID(t *testing.T) {
	tally, mr := setupTally(t)
	ctx := context.Background()

	for _, s := range catalog.Songs() {
		_, err := mr.ZAdd(VotesKey, 1, strconv.Itoa(s.ID))
		require.NoError(t, err)
	}

	songs, err := tally.Songs(ctx)
	require.NoError(t, err)
	for i, s := range songs {
		assert.Equal(t, catalog.Songs()[i].ID, s.ID)
		assert.Equal(t, int64(1), s.Votes)
	}
}

func TestTally_UnknownSong(t *testing.T) {
	tally, _ := setupTally(t)

	songs, err := tally.Vote(context.Background(), 999)
	assert.Nil(t, songs)
	assert.ErrorIs(t, err, apperr.ErrValidation)
}

func TestTally_StoreDown(t *testing.T) {
	tally, mr := setupTally(t)
	mr.Close()

	_, err := tally.Songs(context.Background())
	assert.ErrorIs(t, err, apperr.ErrStore)
}
