package usecase

import (
	"strconv"
	"strings"
	"time"

	"jobs-srv/internal/model"
)

// parseClock converts "HH:MM" into minutes since midnight.
func parseClock(s string) (int, bool) {
	parts := strings.SplitN(s, ":", 2)
	if len(parts) != 2 {
		return 0, false
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil || h < 0 || h > 23 {
		return 0, false
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil || m < 0 || m > 59 {
		return 0, false
	}
	return h*60 + m, true
}

// quietHoursDeferral reports whether now falls inside the user's quiet
// window and, if so, when delivery becomes possible again. The window is
// [start, end) in the user's timezone; start > end spans midnight. A
// malformed window is treated as disabled rather than blocking delivery.
func quietHoursDeferral(q *model.QuietHours, now time.Time) (time.Time, bool) {
	if q == nil || !q.Enabled {
		return time.Time{}, false
	}

	start, ok := parseClock(q.Start)
	if !ok {
		return time.Time{}, false
	}
	end, ok := parseClock(q.End)
	if !ok || start == end {
		return time.Time{}, false
	}

	loc, err := time.LoadLocation(q.Timezone)
	if err != nil {
		loc = time.UTC
	}
	local := now.In(loc)
	cur := local.Hour()*60 + local.Minute()

	inside := false
	if start < end {
		inside = cur >= start && cur < end
	} else {
		// Window spans midnight, e.g. 22:00-07:00.
		inside = cur >= start || cur < end
	}
	if !inside {
		return time.Time{}, false
	}

	resume := time.Date(local.Year(), local.Month(), local.Day(), end/60, end%60, 0, 0, loc)
	if !resume.After(local) {
		resume = resume.Add(24 * time.Hour)
	}
	return resume, true
}
