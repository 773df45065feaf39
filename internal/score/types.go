package score

import "errors"

// Quarters is the number of regulation periods in a water-polo match.
const Quarters = 4

var ErrInvalidQuarter = errors.New("quarter must be between 1 and 4")

// Score is a home/away goal pair.
type Score struct {
	Home int `json:"home"`
	Away int `json:"away"`
}

// Quarter is the score recorded in one period. A closed quarter is a frozen
// snapshot that reconciliation never touches.
type Quarter struct {
	Home   int  `json:"home"`
	Away   int  `json:"away"`
	Closed bool `json:"closed"`
}

// Board holds the four quarters of a match, index 0 being the first quarter.
type Board [Quarters]Quarter
