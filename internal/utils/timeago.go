package utils

import (
	"fmt"
	"time"
)

// TimeAgo renders the distance between t and now as a coarse human string
// ("about 2 hours ago", "3 days ago"). Future timestamps and sub-minute
// distances collapse to "just now". Used for notification display metadata.
func TimeAgo(t, now time.Time) string {
	d := now.Sub(t)
	if d < time.Minute {
		return "just now"
	}
	switch {
	case d < 2*time.Minute:
		return "a minute ago"
	case d < time.Hour:
		return fmt.Sprintf("%d minutes ago", int(d.Minutes()))
	case d < 2*time.Hour:
		return "about an hour ago"
	case d < 24*time.Hour:
		return fmt.Sprintf("about %d hours ago", int(d.Hours()))
	case d < 48*time.Hour:
		return "a day ago"
	case d < 30*24*time.Hour:
		return fmt.Sprintf("%d days ago", int(d.Hours()/24))
	case d < 60*24*time.Hour:
		return "about a month ago"
	case d < 365*24*time.Hour:
		return fmt.Sprintf("about %d months ago", int(d.Hours()/24/30))
	case d < 2*365*24*time.Hour:
		return "about a year ago"
	default:
		return fmt.Sprintf("about %d years ago", int(d.Hours()/24/365))
	}
}
