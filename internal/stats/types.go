package stats

import (
	"errors"
	"sync"
)

// Field is the persisted column name of a single counter.
type Field string

// Category groups fields that take part in the same derivation rule.
type Category string

const (
	CategoryGoal       Category = "goal"
	CategoryMiss       Category = "miss"
	CategorySave       Category = "save"
	CategoryConcede    Category = "concede"
	CategoryKeeperGoal Category = "keeper_goal"
	CategoryDerived    Category = "derived"
	CategoryOther      Category = "other"
)

var (
	ErrUnknownField  = errors.New("unknown stat field")
	ErrDerivedField  = errors.New("derived stat fields cannot be written")
	ErrUnknownPlayer = errors.New("player has no stat record in this match")
)

// Record is the full counter set of one player in one match.
type Record map[Field]int

// store holds one record per called-up player of the match being edited.
type store struct {
	mu      sync.RWMutex
	records map[string]Record
}
