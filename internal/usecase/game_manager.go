package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/rocketscienceinc/tictactoe-core/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-core/internal/entity"
	"github.com/rocketscienceinc/tictactoe-core/internal/repository"
)

var ErrManagerStopped = errors.New("game manager is stopped")

type gameController interface {
	StartNewGame() error
	SubmitMove(row, col int) error
	AcknowledgeResult() error
	Restore(phase entity.Phase, board entity.Board) error

	CurrentPhase() entity.Phase
	Board() entity.Board
	Moves() int
}

type matchRepo interface {
	CreateOrUpdate(ctx context.Context, sessionID string, match *entity.Match) error
	GetByID(ctx context.Context, sessionID string) (*entity.Match, error)
	DeleteByID(ctx context.Context, sessionID string) error
}

type eventKind uint8

const (
	eventStart eventKind = iota
	eventMove
	eventAcknowledge
	eventSnapshot
	eventRestore
)

func (that eventKind) String() string {
	switch that {
	case eventStart:
		return "start"
	case eventMove:
		return "move"
	case eventAcknowledge:
		return "acknowledge"
	case eventSnapshot:
		return "snapshot"
	case eventRestore:
		return "restore"
	default:
		return "unknown"
	}
}

type event struct {
	kind     eventKind
	row, col int
	reply    chan result
}

type result struct {
	match *entity.Match
	err   error
}

// GameManager owns the game controller and feeds it one event at a time from
// a single queue, so the board and phase are only touched by the Run goroutine.
type GameManager struct {
	logger     *slog.Logger
	controller gameController
	matchRepo  matchRepo
	sessionID  string

	events chan event
	done   chan struct{}

	matchID   string
	updatedAt time.Time

	now   func() time.Time
	newID func() string
}

func NewGameManager(logger *slog.Logger, controller gameController, matchRepo matchRepo, sessionID string) *GameManager {
	return &GameManager{
		logger:     logger.With("component", "game_manager"),
		controller: controller,
		matchRepo:  matchRepo,
		sessionID:  sessionID,

		events: make(chan event),
		done:   make(chan struct{}),

		now:   time.Now,
		newID: uuid.NewString,
	}
}

// Run processes queued events until ctx is done.
func (that *GameManager) Run(ctx context.Context) error {
	log := that.logger.With("method", "Run")
	defer close(that.done)

	log.Info("game manager started", "session", that.sessionID)

	for {
		select {
		case <-ctx.Done():
			log.Info("game manager stopped")
			return fmt.Errorf("%w: %w", ErrManagerStopped, ctx.Err())
		case ev := <-that.events:
			ev.reply <- that.handle(ctx, ev)
		}
	}
}

func (that *GameManager) StartNewGame(ctx context.Context) (*entity.Match, error) {
	return that.dispatch(ctx, event{kind: eventStart})
}

func (that *GameManager) SubmitMove(ctx context.Context, row, col int) (*entity.Match, error) {
	return that.dispatch(ctx, event{kind: eventMove, row: row, col: col})
}

func (that *GameManager) AcknowledgeResult(ctx context.Context) (*entity.Match, error) {
	return that.dispatch(ctx, event{kind: eventAcknowledge})
}

// Snapshot returns the current match without changing it.
func (that *GameManager) Snapshot(ctx context.Context) (*entity.Match, error) {
	return that.dispatch(ctx, event{kind: eventSnapshot})
}

// Restore loads the stored snapshot of the session into the controller. A
// missing or unusable snapshot leaves the controller as it is.
func (that *GameManager) Restore(ctx context.Context) (*entity.Match, error) {
	return that.dispatch(ctx, event{kind: eventRestore})
}

func (that *GameManager) dispatch(ctx context.Context, ev event) (*entity.Match, error) {
	ev.reply = make(chan result, 1)

	select {
	case that.events <- ev:
	case <-that.done:
		return nil, ErrManagerStopped
	case <-ctx.Done():
		return nil, fmt.Errorf("failed to queue %s event: %w", ev.kind, ctx.Err())
	}

	select {
	case res := <-ev.reply:
		return res.match, res.err
	case <-ctx.Done():
		return nil, fmt.Errorf("failed to wait for %s event: %w", ev.kind, ctx.Err())
	}
}

func (that *GameManager) handle(ctx context.Context, ev event) result {
	log := that.logger.With("method", "handle", "event", ev.kind.String())

	var err error

	switch ev.kind {
	case eventStart:
		err = that.controller.StartNewGame()
	case eventMove:
		log = log.With("row", ev.row, "col", ev.col)
		err = that.controller.SubmitMove(ev.row, ev.col)
	case eventAcknowledge:
		err = that.controller.AcknowledgeResult()
	case eventRestore:
		return that.restore(ctx)
	case eventSnapshot:
		return result{match: that.snapshot()}
	}

	if isNoOp(err) {
		log.Debug("event ignored", "phase", that.controller.CurrentPhase().String(), "reason", err)
		return result{match: that.snapshot()}
	}

	if err != nil {
		log.Error("failed to handle event", "error", err)
		return result{match: that.snapshot(), err: fmt.Errorf("failed to handle %s event: %w", ev.kind, err)}
	}

	if ev.kind == eventStart || ev.kind == eventAcknowledge {
		that.matchID = that.newID()
	}
	that.updatedAt = that.now()

	match := that.snapshot()
	that.save(ctx, match)

	log.Debug("event applied", "match", match.ID, "phase", match.Phase.String(), "moves", match.Moves)

	return result{match: match}
}

func (that *GameManager) restore(ctx context.Context) result {
	log := that.logger.With("method", "restore")

	stored, err := that.matchRepo.GetByID(ctx, that.sessionID)
	if errors.Is(err, repository.ErrMatchNotFound) {
		log.Info("no stored match, starting clean")
		return result{match: that.snapshot()}
	}

	if err != nil {
		return result{match: that.snapshot(), err: fmt.Errorf("failed to get stored match: %w", err)}
	}

	if err = that.controller.Restore(stored.Phase, stored.Board); err != nil {
		log.Warn("discarding stored match", "match", stored.ID, "error", err)

		if err = that.matchRepo.DeleteByID(ctx, that.sessionID); err != nil && !errors.Is(err, repository.ErrMatchNotFound) {
			log.Error("failed to delete stored match", "error", err)
		}

		return result{match: that.snapshot()}
	}

	that.matchID = stored.ID
	that.updatedAt = stored.UpdatedAt

	log.Info("match restored", "match", stored.ID, "phase", stored.Phase.String())

	return result{match: that.snapshot()}
}

func (that *GameManager) snapshot() *entity.Match {
	return &entity.Match{
		ID:        that.matchID,
		Phase:     that.controller.CurrentPhase(),
		Board:     that.controller.Board(),
		Moves:     that.controller.Moves(),
		UpdatedAt: that.updatedAt,
	}
}

// save never fails the event: the match in memory stays authoritative.
func (that *GameManager) save(ctx context.Context, match *entity.Match) {
	if err := that.matchRepo.CreateOrUpdate(ctx, that.sessionID, match); err != nil {
		that.logger.Error("failed to save match", "match", match.ID, "error", err)
	}
}

func isNoOp(err error) bool {
	return errors.Is(err, apperror.ErrIllegalMove) || errors.Is(err, apperror.ErrInvalidPhaseTransition)
}
