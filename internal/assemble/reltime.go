package assemble

import (
	"fmt"
	"time"
)

// RelativeTime renders how long ago t was, relative to now, using fixed
// breakpoints: minutes under an hour, hours under a day, days under a
// week, weeks under thirty days, months beyond that.
func RelativeTime(t, now time.Time) string {
	elapsed := now.Sub(t)
	if elapsed < 0 {
		elapsed = 0
	}

	switch {
	case elapsed < time.Hour:
		return plural(int(elapsed.Minutes()), "minute")
	case elapsed < 24*time.Hour:
		return plural(int(elapsed.Hours()), "hour")
	case elapsed < 7*24*time.Hour:
		return plural(int(elapsed.Hours()/24), "day")
	case elapsed < 30*24*time.Hour:
		return plural(int(elapsed.Hours()/(24*7)), "week")
	default:
		return plural(int(elapsed.Hours()/(24*30)), "month")
	}
}

func plural(n int, unit string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s ago", unit)
	}
	return fmt.Sprintf("%d %ss ago", n, unit)
}
