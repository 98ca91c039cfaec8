// Package layout splits an area into child areas along one axis according to
// an ordered list of size constraints.
package layout

import (
	"fmt"

	apperrors "github.com/odvcencio/cellgrid/pkg/errors"
)

// ConstraintKind identifies a sizing rule.
type ConstraintKind uint8

const (
	// KindLength is a fixed number of cells.
	KindLength ConstraintKind = iota
	// KindPercentage is a share of the total extent, floored.
	KindPercentage
	// KindRatio is num/den of the total extent, floored.
	KindRatio
	// KindMin grows from a floor.
	KindMin
	// KindMax grows up to a ceiling.
	KindMax
)

// Constraint is one sizing rule, index-aligned with the child it sizes.
type Constraint struct {
	Kind  ConstraintKind
	Value int
	Den   int
}

// Length sizes a child to exactly n cells.
func Length(n int) Constraint { return Constraint{Kind: KindLength, Value: n} }

// Percentage sizes a child to p percent of the extent.
func Percentage(p int) Constraint { return Constraint{Kind: KindPercentage, Value: p} }

// Ratio sizes a child to num/den of the extent.
func Ratio(num, den int) Constraint { return Constraint{Kind: KindRatio, Value: num, Den: den} }

// Min gives a child at least n cells plus a share of the slack.
func Min(n int) Constraint { return Constraint{Kind: KindMin, Value: n} }

// Max gives a child a share of the slack, at most n cells.
func Max(n int) Constraint { return Constraint{Kind: KindMax, Value: n} }

// Fixed reports whether the constraint resolves without the solver.
func (c Constraint) Fixed() bool {
	return c.Kind == KindLength || c.Kind == KindPercentage || c.Kind == KindRatio
}

// resolve returns the fixed size of a Length, Percentage or Ratio constraint.
func (c Constraint) resolve(extent int) int {
	switch c.Kind {
	case KindLength:
		return c.Value
	case KindPercentage:
		return extent * c.Value / 100
	case KindRatio:
		return extent * c.Value / c.Den
	}
	return 0
}

func (c Constraint) validate(index int) error {
	if c.Value < 0 {
		return apperrors.Newf(apperrors.ErrCodeInvalidGeometry,
			"constraint %s has a negative value", c).WithContext("offset", index)
	}
	if c.Kind == KindRatio && c.Den <= 0 {
		return apperrors.Newf(apperrors.ErrCodeInvalidGeometry,
			"constraint %s has a non-positive denominator", c).WithContext("offset", index)
	}
	return nil
}

func (c Constraint) String() string {
	switch c.Kind {
	case KindLength:
		return fmt.Sprintf("Length(%d)", c.Value)
	case KindPercentage:
		return fmt.Sprintf("Percentage(%d)", c.Value)
	case KindRatio:
		return fmt.Sprintf("Ratio(%d, %d)", c.Value, c.Den)
	case KindMin:
		return fmt.Sprintf("Min(%d)", c.Value)
	case KindMax:
		return fmt.Sprintf("Max(%d)", c.Value)
	}
	return "Unknown"
}
