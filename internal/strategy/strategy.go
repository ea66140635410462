// Package strategy implements the cost-model framework numeric-literal
// reconstruction chooses between: several interchangeable encodings of
// the same value, scored by byte size and estimated clock cycles, with
// the winner picked according to the caller's Priority.
package strategy

import "tibasicopt/internal/token"

// Priority controls how Pick breaks ties between a candidate's byte
// size and its estimated execution speed.
type Priority int

const (
	// PriorityNeutral multiplies size and speed cost together, the same
	// balance the calculator's own tokenizer favors.
	PriorityNeutral Priority = iota
	// PrioritySpeed compares candidates on speed cost alone.
	PrioritySpeed
	// PrioritySize compares candidates on byte size alone.
	PrioritySize
)

// Options carries the reconstruction parameters a Strategy needs:
// which device/OS version gates its availability, and which cost axis
// Pick should optimize for.
type Options struct {
	Version  token.Version
	Priority Priority
}

// Strategy is one way to encode a value as a token sequence, alongside
// the cost figures Pick uses to choose among competing strategies.
type Strategy interface {
	// Exists reports whether this encoding is legal for the value and
	// Options it was built with.
	Exists() bool
	// SizeCost returns the exact byte count this encoding would use.
	// Only meaningful when Exists reports true.
	SizeCost() int
	// SpeedCost returns the estimated clock-cycle cost to parse this
	// encoding. Only meaningful when Exists reports true.
	SpeedCost() uint32
	// Reconstruct renders this encoding as tokens. Only valid when
	// Exists reports true.
	Reconstruct(opts Options) []token.Token
}

// Pick selects the cheapest existing strategy under opts.Priority and
// renders it. Returns false if none of the candidates exist.
func Pick(candidates []Strategy, opts Options) ([]token.Token, bool) {
	var best Strategy
	for _, c := range candidates {
		if !c.Exists() {
			continue
		}
		if best == nil || less(c, best, opts.Priority) {
			best = c
		}
	}
	if best == nil {
		return nil, false
	}
	return best.Reconstruct(opts), true
}

// less reports whether a is strictly cheaper than b under priority. Speed
// and Size break ties against each other's axis rather than leaving ties
// to candidate order.
func less(a, b Strategy, priority Priority) bool {
	switch priority {
	case PrioritySpeed:
		if a.SpeedCost() != b.SpeedCost() {
			return a.SpeedCost() < b.SpeedCost()
		}
		return a.SizeCost() < b.SizeCost()
	case PrioritySize:
		if a.SizeCost() != b.SizeCost() {
			return a.SizeCost() < b.SizeCost()
		}
		return a.SpeedCost() < b.SpeedCost()
	default:
		return uint64(a.SizeCost())*uint64(a.SpeedCost()) < uint64(b.SizeCost())*uint64(b.SpeedCost())
	}
}
