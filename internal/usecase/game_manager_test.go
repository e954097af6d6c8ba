package usecase

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/tictactoe-core/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-core/internal/entity"
	"github.com/rocketscienceinc/tictactoe-core/internal/repository"
	"github.com/rocketscienceinc/tictactoe-core/internal/tictactoe"
	mockedUseCase "github.com/rocketscienceinc/tictactoe-core/mocks/usecase"
)

const sessionID = "local"

var (
	errRedisDown = errors.New("redis down")
	fixedNow     = time.Date(2026, 10, 18, 10, 0, 0, 0, time.UTC)
)

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

// startManager runs a manager until the test ends.
func startManager(t *testing.T, controller gameController, repo matchRepo) *GameManager {
	t.Helper()

	manager := NewGameManager(newTestLogger(), controller, repo, sessionID)
	manager.now = func() time.Time { return fixedNow }

	ids := 0
	manager.newID = func() string {
		ids++
		return []string{"match-1", "match-2", "match-3"}[ids-1]
	}

	ctx, cancel := context.WithCancel(context.Background())
	stopped := make(chan error, 1)

	go func() {
		stopped <- manager.Run(ctx)
	}()

	t.Cleanup(func() {
		cancel()
		require.ErrorIs(t, <-stopped, ErrManagerStopped)
	})

	return manager
}

func TestGameManager_StartNewGame(t *testing.T) {
	ctx := context.Background()

	t.Run("Starts a match and saves it", func(t *testing.T) {
		// Given: a manager with an empty repository
		mockMatchRepo := mockedUseCase.NewMockmatchRepo(t)
		manager := startManager(t, tictactoe.NewGameController(), mockMatchRepo)

		mockMatchRepo.EXPECT().
			CreateOrUpdate(mock.Anything, sessionID, mock.MatchedBy(func(match *entity.Match) bool {
				return match.ID == "match-1" && match.Phase == entity.TurnX && match.Moves == 0
			})).
			Return(nil).
			Once()

		// When: a new game is started
		match, err := manager.StartNewGame(ctx)

		// Then: X is to move on an empty board
		require.NoError(t, err)
		assert.Equal(t, &entity.Match{
			ID:        "match-1",
			Phase:     entity.TurnX,
			Board:     entity.NewBoard(),
			UpdatedAt: fixedNow,
		}, match)
	})

	t.Run("Second start is ignored", func(t *testing.T) {
		// Given: a running match
		mockMatchRepo := mockedUseCase.NewMockmatchRepo(t)
		manager := startManager(t, tictactoe.NewGameController(), mockMatchRepo)

		mockMatchRepo.EXPECT().
			CreateOrUpdate(mock.Anything, sessionID, mock.AnythingOfType("*entity.Match")).
			Return(nil).
			Once()

		_, err := manager.StartNewGame(ctx)
		require.NoError(t, err)

		// When: start is requested again
		match, err := manager.StartNewGame(ctx)

		// Then: nothing changes, nothing is saved and no error is surfaced
		require.NoError(t, err)
		assert.Equal(t, "match-1", match.ID)
		assert.Equal(t, entity.TurnX, match.Phase)
	})
}

func TestGameManager_SubmitMove(t *testing.T) {
	ctx := context.Background()

	t.Run("Legal move switches the turn", func(t *testing.T) {
		// Given: a started match
		manager := startManager(t, tictactoe.NewGameController(), repository.NewMemoryMatchRepository())

		_, err := manager.StartNewGame(ctx)
		require.NoError(t, err)

		// When: X plays the centre
		match, err := manager.SubmitMove(ctx, 1, 1)

		// Then: O is to move
		require.NoError(t, err)
		assert.Equal(t, entity.TurnO, match.Phase)
		assert.Equal(t, entity.MarkX, match.Board[1][1])
		assert.Equal(t, 1, match.Moves)
	})

	t.Run("Illegal moves are silent no-ops", func(t *testing.T) {
		// Given: a match where X holds the centre
		mockMatchRepo := mockedUseCase.NewMockmatchRepo(t)
		manager := startManager(t, tictactoe.NewGameController(), mockMatchRepo)

		mockMatchRepo.EXPECT().
			CreateOrUpdate(mock.Anything, sessionID, mock.AnythingOfType("*entity.Match")).
			Return(nil).
			Twice()

		_, err := manager.StartNewGame(ctx)
		require.NoError(t, err)
		before, err := manager.SubmitMove(ctx, 1, 1)
		require.NoError(t, err)

		// When: O plays the occupied centre
		after, err := manager.SubmitMove(ctx, 1, 1)

		// Then: no error, no save and the match is unchanged
		require.NoError(t, err)
		assert.Equal(t, before, after)
	})

	t.Run("Move before the game is ignored", func(t *testing.T) {
		mockMatchRepo := mockedUseCase.NewMockmatchRepo(t)
		manager := startManager(t, tictactoe.NewGameController(), mockMatchRepo)

		match, err := manager.SubmitMove(ctx, 0, 0)

		require.NoError(t, err)
		assert.Equal(t, entity.BeforeGame, match.Phase)
		assert.True(t, match.Board.IsEmpty())
	})

	t.Run("Out of bounds is returned", func(t *testing.T) {
		// Given: a started match
		manager := startManager(t, tictactoe.NewGameController(), repository.NewMemoryMatchRepository())

		_, err := manager.StartNewGame(ctx)
		require.NoError(t, err)

		// When: a move outside the board is submitted
		match, err := manager.SubmitMove(ctx, 3, 0)

		// Then: the contract violation is reported and the match is intact
		require.ErrorIs(t, err, apperror.ErrOutOfBounds)
		assert.Equal(t, entity.TurnX, match.Phase)
	})

	t.Run("Save failure does not undo the move", func(t *testing.T) {
		// Given: a repository that fails on every save
		mockMatchRepo := mockedUseCase.NewMockmatchRepo(t)
		manager := startManager(t, tictactoe.NewGameController(), mockMatchRepo)

		mockMatchRepo.EXPECT().
			CreateOrUpdate(mock.Anything, sessionID, mock.AnythingOfType("*entity.Match")).
			Return(errRedisDown)

		_, err := manager.StartNewGame(ctx)
		require.NoError(t, err)

		// When: X moves
		match, err := manager.SubmitMove(ctx, 0, 0)

		// Then: the move is applied anyway
		require.NoError(t, err)
		assert.Equal(t, entity.TurnO, match.Phase)
	})
}

func TestGameManager_AcknowledgeResult(t *testing.T) {
	ctx := context.Background()

	t.Run("Ignored during a turn", func(t *testing.T) {
		manager := startManager(t, tictactoe.NewGameController(), repository.NewMemoryMatchRepository())

		_, err := manager.StartNewGame(ctx)
		require.NoError(t, err)

		match, err := manager.AcknowledgeResult(ctx)

		require.NoError(t, err)
		assert.Equal(t, entity.TurnX, match.Phase)
		assert.Equal(t, "match-1", match.ID)
	})

	t.Run("Win is acknowledged into a new match", func(t *testing.T) {
		// Given: a match won by X
		repo := repository.NewMemoryMatchRepository()
		manager := startManager(t, tictactoe.NewGameController(), repo)

		_, err := manager.StartNewGame(ctx)
		require.NoError(t, err)

		var match *entity.Match
		for _, move := range [][2]int{{0, 0}, {1, 0}, {0, 1}, {1, 1}, {0, 2}} {
			match, err = manager.SubmitMove(ctx, move[0], move[1])
			require.NoError(t, err)
		}
		require.Equal(t, entity.WinX, match.Phase)
		assert.Equal(t, entity.MarkX, match.Winner())

		// When: the result is acknowledged
		match, err = manager.AcknowledgeResult(ctx)

		// Then: a new match starts with X to move and replaces the stored one
		require.NoError(t, err)
		assert.Equal(t, "match-2", match.ID)
		assert.Equal(t, entity.TurnX, match.Phase)
		assert.True(t, match.Board.IsEmpty())

		stored, err := repo.GetByID(ctx, sessionID)
		require.NoError(t, err)
		assert.Equal(t, match, stored)
	})
}

func TestGameManager_Restore(t *testing.T) {
	ctx := context.Background()

	t.Run("Continues a stored match", func(t *testing.T) {
		// Given: a stored match where O is to move
		mockMatchRepo := mockedUseCase.NewMockmatchRepo(t)
		manager := startManager(t, tictactoe.NewGameController(), mockMatchRepo)

		stored := &entity.Match{
			ID:    "match-0",
			Phase: entity.TurnO,
			Board: entity.Board{
				{entity.MarkX, entity.Empty, entity.Empty},
				{entity.Empty, entity.Empty, entity.Empty},
				{entity.Empty, entity.Empty, entity.Empty},
			},
			Moves:     1,
			UpdatedAt: fixedNow.Add(-time.Hour),
		}

		mockMatchRepo.EXPECT().
			GetByID(mock.Anything, sessionID).
			Return(stored, nil).
			Once()

		// When: the manager restores the session
		match, err := manager.Restore(ctx)

		// Then: the stored match is live again
		require.NoError(t, err)
		assert.Equal(t, stored, match)
	})

	t.Run("Nothing stored", func(t *testing.T) {
		mockMatchRepo := mockedUseCase.NewMockmatchRepo(t)
		manager := startManager(t, tictactoe.NewGameController(), mockMatchRepo)

		mockMatchRepo.EXPECT().
			GetByID(mock.Anything, sessionID).
			Return(nil, repository.ErrMatchNotFound).
			Once()

		match, err := manager.Restore(ctx)

		require.NoError(t, err)
		assert.Equal(t, entity.BeforeGame, match.Phase)
	})

	t.Run("Discards an inconsistent snapshot", func(t *testing.T) {
		// Given: a stored match claiming X won with two marks
		mockMatchRepo := mockedUseCase.NewMockmatchRepo(t)
		manager := startManager(t, tictactoe.NewGameController(), mockMatchRepo)

		mockMatchRepo.EXPECT().
			GetByID(mock.Anything, sessionID).
			Return(&entity.Match{
				ID:    "broken",
				Phase: entity.WinX,
				Board: entity.Board{{entity.MarkX, entity.MarkX, entity.Empty}},
			}, nil).
			Once()
		mockMatchRepo.EXPECT().
			DeleteByID(mock.Anything, sessionID).
			Return(nil).
			Once()

		// When: the manager restores the session
		match, err := manager.Restore(ctx)

		// Then: the snapshot is dropped and the manager waits for a new game
		require.NoError(t, err)
		assert.Equal(t, entity.BeforeGame, match.Phase)
		assert.Empty(t, match.ID)
	})

	t.Run("Storage failure is returned", func(t *testing.T) {
		mockMatchRepo := mockedUseCase.NewMockmatchRepo(t)
		manager := startManager(t, tictactoe.NewGameController(), mockMatchRepo)

		mockMatchRepo.EXPECT().
			GetByID(mock.Anything, sessionID).
			Return(nil, errRedisDown).
			Once()

		_, err := manager.Restore(ctx)

		require.ErrorIs(t, err, errRedisDown)
	})
}

func TestGameManager_Stopped(t *testing.T) {
	// Given: a manager whose loop has exited
	manager := NewGameManager(newTestLogger(), tictactoe.NewGameController(), repository.NewMemoryMatchRepository(), sessionID)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := manager.Run(ctx)
	require.ErrorIs(t, err, ErrManagerStopped)
	require.ErrorIs(t, err, context.Canceled)

	// When: an event is submitted
	_, err = manager.Snapshot(context.Background())

	// Then: ErrManagerStopped is returned
	require.ErrorIs(t, err, ErrManagerStopped)
}

func TestGameManager_SerializesConcurrentEvents(t *testing.T) {
	ctx := context.Background()

	// Given: a started match
	manager := startManager(t, tictactoe.NewGameController(), repository.NewMemoryMatchRepository())

	_, err := manager.StartNewGame(ctx)
	require.NoError(t, err)

	// When: every cell is submitted concurrently
	errs := make(chan error, entity.BoardSize*entity.BoardSize)
	for row := 0; row < entity.BoardSize; row++ {
		for col := 0; col < entity.BoardSize; col++ {
			go func(row, col int) {
				_, err := manager.SubmitMove(ctx, row, col)
				errs <- err
			}(row, col)
		}
	}

	for i := 0; i < entity.BoardSize*entity.BoardSize; i++ {
		require.NoError(t, <-errs)
	}

	// Then: the marks are consistent with alternating play
	match, err := manager.Snapshot(ctx)
	require.NoError(t, err)

	xCount, oCount := match.Board.Count(entity.MarkX), match.Board.Count(entity.MarkO)
	assert.Contains(t, []int{0, 1}, xCount-oCount)
	assert.Equal(t, xCount+oCount, match.Moves)
	assert.NotEqual(t, entity.BeforeGame, match.Phase)
}
