package entity

import "time"

// Match is a point-in-time snapshot of the live match. It is what gets rendered
// and what the snapshot store keeps for a session.
type Match struct {
	ID        string    `json:"id"`
	Phase     Phase     `json:"phase"`
	Board     Board     `json:"board"`
	Moves     int       `json:"moves"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Winner returns the winning mark, Empty while the match is running or drawn.
func (that *Match) Winner() CellMark {
	return that.Phase.Winner()
}

func (that *Match) IsFinished() bool {
	return that.Phase.IsTerminal()
}

func (that *Match) IsOngoing() bool {
	return that.Phase.IsTurn()
}

func (that *Match) IsWaiting() bool {
	return that.Phase == BeforeGame
}
