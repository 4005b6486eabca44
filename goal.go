package budget

import "github.com/etnz/budget/date"

// Goal is a savings target.
type Goal struct {
	ID                 int            `json:"id"`
	Name               string         `json:"name"`
	TargetAmount       float64        `json:"target_amount"`
	CurrentAmount      float64        `json:"current_amount"`
	Deadline           date.Date      `json:"deadline"`
	CreatedAt          date.Timestamp `json:"created_at"`
	ProgressPercentage float64        `json:"progress_percentage"`
	DaysRemaining      int            `json:"days_remaining"`
}

// Reached reports whether the target amount is saved.
func (g Goal) Reached() bool { return g.CurrentAmount >= g.TargetAmount }

// NewGoal is the payload to create a goal.
type NewGoal struct {
	Name         string    `json:"name" validate:"required"`
	TargetAmount float64   `json:"target_amount" validate:"gt=0"`
	Deadline     date.Date `json:"deadline"`
}

// GoalPatch carries the fields to change, nil fields are left untouched.
type GoalPatch struct {
	Name          *string    `json:"name,omitempty"`
	TargetAmount  *float64   `json:"target_amount,omitempty"`
	CurrentAmount *float64   `json:"current_amount,omitempty"`
	Deadline      *date.Date `json:"deadline,omitempty"`
}
