package stats

import (
	"fmt"
	"math"
)

// SafeNumber coerces an entered value into a counter. Missing or malformed
// input (NaN, infinities, negatives) becomes zero; fractions round half up.
func SafeNumber(v float64) int {
	if math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
		return 0
	}
	return int(math.Floor(v + 0.5))
}

// Efficiency is round-half-up(made / attempted * 100), or 0 when nothing was
// attempted.
func Efficiency(made, attempted int) int {
	if attempted <= 0 || made <= 0 {
		return 0
	}
	return (200*made + attempted) / (2 * attempted)
}

// Apply writes one raw counter and returns a new, fully derived record. The
// input record is never modified.
func Apply(rec Record, f Field, value int) (Record, error) {
	cat, ok := CategoryOf(f)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownField, f)
	}
	if cat == CategoryDerived {
		return nil, fmt.Errorf("%w: %s", ErrDerivedField, f)
	}
	if value < 0 {
		value = 0
	}
	next := rec.Clone()
	next[f] = value
	return Derive(next), nil
}

// Derive recomputes every derived field of rec from its source fields and
// returns the result as a new record.
func Derive(rec Record) Record {
	out := rec.Clone()

	goals := out.sum(CategoryGoal)
	shots := goals + out.sum(CategoryMiss)
	out[GolesTotales] = goals
	out[TirosTotales] = shots
	out[TirosEficiencia] = Efficiency(goals, shots)
	out[GolesEficiencia] = out[TirosEficiencia]

	out[PorteroParadasTotales] = out.sum(CategorySave)
	out[PorteroGolesTotales] = out.sum(CategoryConcede)
	return out
}

// RivalGoals is the part of the conceded total that counts for the opponent.
func RivalGoals(rec Record) int {
	total := 0
	for _, f := range FieldsIn(CategoryConcede) {
		if CountsForRival(f) {
			total += rec[f]
		}
	}
	return total
}

func (r Record) sum(c Category) int {
	total := 0
	for _, f := range FieldsIn(c) {
		total += r[f]
	}
	return total
}

// Clone returns an independent copy of the record.
func (r Record) Clone() Record {
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// HasStats reports whether any counter of the record is non-zero.
func (r Record) HasStats() bool {
	for _, v := range r {
		if v != 0 {
			return true
		}
	}
	return false
}

// Merge lays persisted values over a fresh template so counters introduced
// after the row was written default to zero. Names outside the catalog are
// dropped.
func Merge(persisted map[string]int) Record {
	rec := Template()
	for name, v := range persisted {
		f, ok := Lookup(name)
		if !ok {
			continue
		}
		if v < 0 {
			v = 0
		}
		rec[f] = v
	}
	return Derive(rec)
}

// Wire converts a record into the string-keyed form used for persistence and
// JSON.
func (r Record) Wire() map[string]int {
	out := make(map[string]int, len(r))
	for k, v := range r {
		out[string(k)] = v
	}
	return out
}
