package domain

import (
	"time"
)

// DayState is the close-day workflow state. Transitions only move forward:
// awaiting opening -> open for entry -> awaiting closing -> closed, and a
// closed day immediately rolls into the next day's awaiting-opening state.
type DayState string

const (
	StateAwaitingOpening DayState = "awaiting_opening_confirmation"
	StateOpenForEntry    DayState = "open_for_entry"
	StateAwaitingClosing DayState = "awaiting_closing_confirmation"
	StateClosed          DayState = "closed"
)

// DaySession is the explicit, serializable workflow-state object for one
// branch's open day: the state machine position, the confirmed opening,
// the responsible users and the uncommitted ledger. It is checkpointed to
// the session store at every mutation boundary so a crashed UI session can
// resume where it left off.
type DaySession struct {
	BranchID int64     `json:"branch_id"`
	Date     time.Time `json:"date"`
	State    DayState  `json:"state"`

	// ExpectedOpening is the previous day's closing; Opening is the
	// physically counted amount confirmed by the operator.
	ExpectedOpening Amount `json:"expected_opening"`
	Opening         Amount `json:"opening"`

	OpeningUserID string `json:"opening_user_id,omitempty"`
	CloserUserID  string `json:"closer_user_id,omitempty"`

	Ledger    Ledger    `json:"ledger"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewDaySession starts a fresh day awaiting opening confirmation.
func NewDaySession(branchID int64, date time.Time, expectedOpening Amount, now time.Time) *DaySession {
	return &DaySession{
		BranchID:        branchID,
		Date:            DateOnly(date),
		State:           StateAwaitingOpening,
		ExpectedOpening: expectedOpening,
		Opening:         ZeroAmount(),
		UpdatedAt:       now,
	}
}

// CanRecordEntries reports whether ledger mutations are allowed.
func (s *DaySession) CanRecordEntries() bool {
	return s.State == StateOpenForEntry
}

// Net is the expected closing balance given the current ledger.
func (s *DaySession) Net() Amount {
	return Net(s.Opening, s.Ledger)
}

// DateOnly truncates a timestamp to its UTC calendar date. Daily balances
// and sessions are keyed on (branch, date) at day grain.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DailyBalance is the append-only closing snapshot for one branch and date.
// Exactly one may exist per (branch, date); the store's uniqueness
// constraint is the single source of truth for that.
type DailyBalance struct {
	ID           string    `json:"id"`
	BranchID     int64     `json:"branch_id"`
	Date         time.Time `json:"date"`
	Opening      Amount    `json:"opening"`
	Closing      Amount    `json:"closing"`
	CloserUserID string    `json:"closer_user_id"`
	CreatedAt    time.Time `json:"created_at"`
}

// DifferenceStage says whether a cash difference was found at day start or
// day end.
type DifferenceStage string

const (
	StageOpening DifferenceStage = "opening"
	StageClosing DifferenceStage = "closing"
)

// CashDifference records a discrepancy between expected and physically
// counted cash, attributed to the responsible user. Created only when the
// difference is non-zero.
type CashDifference struct {
	ID         string          `json:"id"`
	BranchID   int64           `json:"branch_id"`
	UserID     string          `json:"user_id"`
	Date       time.Time       `json:"date"`
	Stage      DifferenceStage `json:"stage"`
	Difference Amount          `json:"difference"`
	CreatedAt  time.Time       `json:"created_at"`
}
