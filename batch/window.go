package batch

import (
	"fmt"
	"slices"
	"strconv"
	"time"
)

// WholeDay is the hour value of a segment covering an entire day.
const WholeDay = "-1"

const dateLayout = "20060102"

// Segment is a single date/hour parameter pair accepted by time-ranged
// endpoints. Date is formatted as YYYYMMDD. Hour is either WholeDay for a
// full day, an unpadded hour ("0" through "23") for a full hour, or an
// "H,MM" pair ("7,40") for a ten-minute slice starting at that time.
type Segment struct {
	Date string
	Hour string
}

// Windows enumerates the minimal sequence of segments covering the
// [start, end) range. Both bounds are converted to UTC and floored to
// ten-minute resolution first; a range that is empty after flooring yields
// no segments. Whole days are preferred over hours and hours over
// ten-minute slices, so the sequence stays as short as the range allows.
// With reverse set, the exact mirror image is returned, latest segment
// first.
func Windows(start, end time.Time, reverse bool) []Segment {
	start = start.UTC().Truncate(10 * time.Minute)
	end = end.UTC().Truncate(10 * time.Minute)
	if !start.Before(end) {
		return nil
	}

	var segs []Segment
	done := func() []Segment {
		if reverse {
			slices.Reverse(segs)
		}
		return segs
	}

	// Ten-minute slices up to the next whole hour.
	if start.Minute() > 0 {
		closestHour := start.Truncate(time.Hour).Add(time.Hour)
		for start.Before(closestHour) {
			segs = append(segs, tenMinuteSegment(start))
			start = start.Add(10 * time.Minute)
			if !start.Before(end) {
				return done()
			}
		}
	}
	// Whole hours up to the next midnight, but only when the range
	// actually reaches it.
	if start.Hour() > 0 {
		closestDay := midnight(start).AddDate(0, 0, 1)
		if !closestDay.After(end) {
			for start.Before(closestDay) {
				segs = append(segs, hourSegment(start))
				start = start.Add(time.Hour)
				if !start.Before(end) {
					return done()
				}
			}
		}
	}
	// Whole days up to the midnight of the end day.
	for closestDay := midnight(end); start.Before(closestDay); {
		segs = append(segs, Segment{start.Format(dateLayout), WholeDay})
		start = start.AddDate(0, 0, 1)
	}
	if !start.Before(end) {
		return done()
	}
	// Whole hours down to the last whole hour of the range.
	if end.Hour() > 0 {
		closestHour := end.Truncate(time.Hour)
		for start.Before(closestHour) {
			segs = append(segs, hourSegment(start))
			start = start.Add(time.Hour)
		}
		if !start.Before(end) {
			return done()
		}
	}
	// Ten-minute slices for the remainder.
	for start.Before(end) {
		segs = append(segs, tenMinuteSegment(start))
		start = start.Add(10 * time.Minute)
	}
	return done()
}

func midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func hourSegment(t time.Time) Segment {
	return Segment{t.Format(dateLayout), strconv.Itoa(t.Hour())}
}

func tenMinuteSegment(t time.Time) Segment {
	return Segment{t.Format(dateLayout), fmt.Sprintf("%d,%02d", t.Hour(), t.Minute())}
}
