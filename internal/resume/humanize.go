package resume

import (
	"fmt"
	"time"
)

// humanAge formats an elapsed duration the way the deck prompt phrases it:
// "moments", "5 minutes", "1 hour", "3 days".
func humanAge(d time.Duration) string {
	switch {
	case d < time.Minute:
		return "moments"
	case d < time.Hour:
		n := int(d.Minutes())
		if n == 1 {
			return "1 minute"
		}
		return fmt.Sprintf("%d minutes", n)
	case d < 24*time.Hour:
		n := int(d.Hours())
		if n == 1 {
			return "1 hour"
		}
		return fmt.Sprintf("%d hours", n)
	default:
		n := int(d.Hours() / 24)
		if n == 1 {
			return "1 day"
		}
		return fmt.Sprintf("%d days", n)
	}
}
