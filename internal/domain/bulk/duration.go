package bulk

import (
	"strconv"
	"time"

	"golang.org/x/text/language"
)

// FormatDuration renders an import duration at the coarsest useful unit:
// seconds under a minute, minutes under an hour, then hours and minutes.
func FormatDuration(d time.Duration, lang language.Tag) string {
	seconds := int(d / time.Second)
	if seconds < 0 {
		seconds = 0
	}

	switch {
	case seconds < 60:
		return Localize(lang, MsgSeconds, strconv.Itoa(seconds))
	case seconds < 3600:
		return Localize(lang, MsgMinutes, strconv.Itoa(seconds/60))
	default:
		return Localize(lang, MsgHoursMinutes, strconv.Itoa(seconds/3600), strconv.Itoa((seconds%3600)/60))
	}
}
