package monitor

import "time"

type Status struct {
	Store     string    `json:"store"`
	Online    bool      `json:"online"`
	Pending   int       `json:"pending"`
	LastCheck time.Time `json:"last_check"`
}
