package database

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"landlord-game/internal/game"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	s, err := New("sqlite3", ":memory:", nil)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func result(room string, at time.Time, names ...string) GameResult {
	r := game.Result{RoomID: room, LandlordSeat: 0, WinnerSeat: 1, Bid: 2, FinishedAt: at}
	copy(r.Names[:], names)
	return FromGame(r)
}

func TestInsertAndGet(t *testing.T) {
	ctx := context.Background()
	s := newTestService(t)
	assert.Equal(t, "landlord_results", s.TableName())
	require.NoError(t, s.Ping(ctx))

	r := result("ROOM1", time.Now(), "ann", "bo", "cy")
	require.NoError(t, s.Insert(ctx, r))

	got, err := s.GetByID(ctx, r.ID)
	require.NoError(t, err)
	assert.Equal(t, r, got)
	assert.False(t, got.LandlordWon)
	assert.Equal(t, 2, got.Bid)

	_, err = s.GetByID(ctx, "missing")
	assert.ErrorIs(t, err, sql.ErrNoRows)

	assert.Error(t, s.Insert(ctx, r), "duplicate ids are rejected")
}

func TestGetAllNewestFirst(t *testing.T) {
	ctx := context.Background()
	s := newTestService(t)

	all, err := s.GetAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)

	now := time.Now()
	older := result("OLD", now.Add(-time.Hour), "a", "b", "c")
	newer := result("NEW", now, "a", "b", "c")
	require.NoError(t, s.Insert(ctx, older))
	require.NoError(t, s.Insert(ctx, newer))

	all, err = s.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "NEW", all[0].RoomID)
	assert.Equal(t, "OLD", all[1].RoomID)
}

func TestGetByPlayer(t *testing.T) {
	ctx := context.Background()
	s := newTestService(t)
	require.NoError(t, s.Insert(ctx, result("R1", time.Now(), "ann", "bo", "cy")))
	require.NoError(t, s.Insert(ctx, result("R2", time.Now(), "dee", "ann", "eve")))
	require.NoError(t, s.Insert(ctx, result("R3", time.Now(), "dee", "bo", "eve")))

	ann, err := s.GetByPlayer(ctx, "ann")
	require.NoError(t, err)
	assert.Len(t, ann, 2)

	_, err = s.GetByPlayer(ctx, "zed")
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestPruneBefore(t *testing.T) {
	ctx := context.Background()
	s := newTestService(t)
	now := time.Now()
	require.NoError(t, s.Insert(ctx, result("OLD", now.Add(-48*time.Hour), "a", "b", "c")))
	require.NoError(t, s.Insert(ctx, result("NEW", now, "a", "b", "c")))

	n, err := s.PruneBefore(ctx, now.Add(-24*time.Hour))
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	all, err := s.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "NEW", all[0].RoomID)
}

func TestCleanupJob(t *testing.T) {
	ctx := context.Background()
	s := newTestService(t)
	require.NoError(t, s.Insert(ctx, result("OLD", time.Now().Add(-72*time.Hour), "a", "b", "c")))

	s.cleanupJob(24 * time.Hour)()

	all, err := s.GetAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestStartCleaner(t *testing.T) {
	s := newTestService(t)

	_, err := s.StartCleaner("not a schedule", time.Hour)
	assert.Error(t, err)

	c, err := s.StartCleaner("@daily", time.Hour)
	require.NoError(t, err)
	assert.Len(t, c.Entries(), 1)
	c.Stop()

	c, err = s.StartCleaner("@daily", 0)
	require.NoError(t, err)
	assert.Empty(t, c.Entries())
}

func TestRecorder(t *testing.T) {
	ctx := context.Background()
	s := newTestService(t)

	s.Recorder(time.Second)(game.Result{
		RoomID:       "WIN",
		LandlordSeat: 2,
		WinnerSeat:   2,
		LandlordWon:  true,
		Bid:          3,
		Names:        [game.NumSeats]string{"a", "b", "c"},
	})

	require.Eventually(t, func() bool {
		results, err := s.GetByPlayer(ctx, "c")
		return err == nil && len(results) == 1 && results[0].LandlordWon
	}, 2*time.Second, 10*time.Millisecond)
}

func TestNewRejectsUnknownDriver(t *testing.T) {
	_, err := New("nope", "x", nil)
	assert.Error(t, err)
}
