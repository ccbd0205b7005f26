package models

import "time"

type EntrantStatus int

const (
	EntrantStatusPending  EntrantStatus = 0
	EntrantStatusRejected EntrantStatus = 1
	EntrantStatusApproved EntrantStatus = 2
)

// Member - зарегистрированный на событие пользователь. В командном режиме
// TeamID указывает на команду, в индивидуальном участник сам является entrant.
type Member struct {
	ID       int           `json:"id"`
	EventID  int           `json:"event_id"`
	TeamID   *int          `json:"team_id,omitempty"`
	UserID   string        `json:"user_id"`
	Nickname string        `json:"nickname"`
	Status   EntrantStatus `json:"status"`
	JoinedAt time.Time     `json:"joined_at"`
}

type Team struct {
	ID        int           `json:"id"`
	EventID   int           `json:"event_id"`
	Name      string        `json:"name"`
	Status    EntrantStatus `json:"status"`
	CreatedAt time.Time     `json:"created_at"`
}
