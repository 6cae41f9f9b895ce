// Package xp implements the experience-point curve that drives level
// progression.
package xp

const (
	// BaseRequirement is the XP needed to advance from level 1 to level 2.
	BaseRequirement = 100

	growthFactor = 1.5
)

// NextRequirement returns the XP required to clear the level after one whose
// requirement is req.
func NextRequirement(req int) int {
	return int(float64(req) * growthFactor)
}

// RequirementAt returns the XP required to advance from the given level to
// the next one.
func RequirementAt(level int) int {
	req := BaseRequirement

	for l := 1; l < level; l++ {
		req = NextRequirement(req)
	}

	return req
}

// ForLevel returns the cumulative XP needed to reach the given level from
// zero. Level 1 is the starting level and costs nothing.
func ForLevel(level int) int {
	var total int

	req := BaseRequirement

	for l := 1; l < level; l++ {
		total += req
		req = NextRequirement(req)
	}

	return total
}

// Level returns the level a cumulative XP total corresponds to.
func Level(total int) int {
	level := 1
	req := BaseRequirement

	for total >= req {
		total -= req
		req = NextRequirement(req)
		level++
	}

	return level
}
