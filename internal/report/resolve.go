// Package report is the time-aggregation engine. Everything in it is a
// pure function over a record snapshot and an explicit "now"; the same
// code backs the dashboard cards, the entry list, the reports view and
// the CLI so the figures can never drift apart.
package report

import (
	"time"

	"github.com/tempo-tracker/tempo/internal/store"
)

// ResolveSeconds maps one record to its elapsed seconds. Precedence:
// an explicit duration wins outright, then a closed start/end pair,
// then elapsed-since-start for a running record. Records with no
// usable timing data, and closed records whose end precedes their
// start, resolve to 0.
//
// Never cache the result for a running record; it changes every tick.
func ResolveSeconds(rec store.TimeRecord, now time.Time) int64 {
	switch {
	case rec.Duration > 0:
		return rec.Duration
	case !rec.StartTime.IsZero() && rec.EndTime != nil:
		return clampSeconds(rec.EndTime.Sub(rec.StartTime))
	case !rec.StartTime.IsZero() && rec.Running():
		return clampSeconds(now.Sub(rec.StartTime))
	default:
		return 0
	}
}

func clampSeconds(d time.Duration) int64 {
	secs := int64(d / time.Second)
	if secs < 0 {
		return 0
	}
	return secs
}
