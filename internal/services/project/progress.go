package project

import "math"

// Progress maps a task population onto a 0-100 percentage. A project with no
// tasks reports 0. Rounding is to the nearest integer, half away from zero,
// matching how the dashboard has always displayed it.
func Progress(done, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(100 * float64(done) / float64(total)))
}

// DeriveStatus: a project is completed exactly when every task is done.
func DeriveStatus(progress int) Status {
	if progress == 100 {
		return StatusCompleted
	}
	return StatusInProgress
}
