package layout

// solve distributes extent cells among the constraints. The result always
// sums to extent when there is at least one constraint.
//
// Fixed constraints are resolved first and, on overflow, squeezed from the
// last one backwards. Min floors are then granted in index order. The slack
// is water-filled equally over Min and Max entries, Max entries stopping at
// their ceiling and earlier entries taking the division remainder. Whatever
// is still left goes to the last child.
func solve(constraints []Constraint, extent int) []int {
	sizes := make([]int, len(constraints))
	if len(constraints) == 0 {
		return sizes
	}

	fixed := 0
	var flexible []int
	for i, c := range constraints {
		if c.Fixed() {
			sizes[i] = c.resolve(extent)
			fixed += sizes[i]
		} else {
			flexible = append(flexible, i)
		}
	}

	for i := len(sizes) - 1; i >= 0 && fixed > extent; i-- {
		if !constraints[i].Fixed() {
			continue
		}
		cut := min(sizes[i], fixed-extent)
		sizes[i] -= cut
		fixed -= cut
	}

	remaining := extent - fixed
	for _, i := range flexible {
		if constraints[i].Kind != KindMin {
			continue
		}
		floor := min(constraints[i].Value, remaining)
		sizes[i] = floor
		remaining -= floor
	}

	remaining = waterFill(constraints, flexible, sizes, remaining)

	if remaining > 0 {
		sizes[len(sizes)-1] += remaining
	}
	return sizes
}

// waterFill spreads remaining over the flexible entries and returns what
// could not be placed.
func waterFill(constraints []Constraint, flexible, sizes []int, remaining int) int {
	capped := func(i int) bool {
		return constraints[i].Kind == KindMax && sizes[i] >= constraints[i].Value
	}

	for remaining > 0 {
		var open []int
		for _, i := range flexible {
			if !capped(i) {
				open = append(open, i)
			}
		}
		if len(open) == 0 {
			return remaining
		}

		share, extra := remaining/len(open), remaining%len(open)
		placed := 0
		for n, i := range open {
			want := share
			if n < extra {
				want++
			}
			if constraints[i].Kind == KindMax {
				want = min(want, constraints[i].Value-sizes[i])
			}
			sizes[i] += want
			placed += want
		}
		remaining -= placed
		if placed == 0 {
			return remaining
		}
	}
	return remaining
}
