package club

import (
	"database/sql"
	"sync"
)

// store handles all database operations for the club's roster master data.
type store struct {
	db *sql.DB
	mu sync.RWMutex
}

// PlayerInfo represents a squad member. It does not change while a match is
// being recorded.
type PlayerInfo struct {
	ID           string `json:"id"`
	Number       int    `json:"number"`
	Name         string `json:"name"`
	IsGoalkeeper bool   `json:"is_goalkeeper"`
	PhotoURL     string `json:"photo_url,omitempty"`
}
