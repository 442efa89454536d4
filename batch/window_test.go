package batch

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var base = time.Date(2021, time.April, 12, 0, 0, 0, 0, time.UTC)

func TestWindows(t *testing.T) {
	day0 := base.Format("20060102")
	day1 := base.AddDate(0, 0, 1).Format("20060102")
	day2 := base.AddDate(0, 0, 2).Format("20060102")

	tests := []struct {
		name  string
		start time.Time
		end   time.Time
		want  []Segment
	}{
		{
			name:  "zero width",
			start: base,
			end:   base,
			want:  nil,
		},
		{
			name:  "end before start",
			start: base.Add(time.Hour),
			end:   base,
			want:  nil,
		},
		{
			name:  "sub ten minute range floors to nothing",
			start: base.Add(3 * time.Minute),
			end:   base.Add(9 * time.Minute),
			want:  nil,
		},
		{
			name:  "full spread",
			start: base.Add(22*time.Hour + 50*time.Minute),
			end:   base.Add(48*time.Hour + 70*time.Minute),
			want: []Segment{
				{day0, "22,50"},
				{day0, "23"},
				{day1, "-1"},
				{day2, "0"},
				{day2, "1,00"},
			},
		},
		{
			name:  "single ten minute slice",
			start: base.Add(50 * time.Minute),
			end:   base.Add(time.Hour),
			want:  []Segment{{day0, "0,50"}},
		},
		{
			name:  "single hour before midnight",
			start: base.Add(23 * time.Hour),
			end:   base.AddDate(0, 0, 1),
			want:  []Segment{{day0, "23"}},
		},
		{
			name:  "single whole day",
			start: base,
			end:   base.AddDate(0, 0, 1),
			want:  []Segment{{day0, "-1"}},
		},
		{
			name:  "single finishing hour",
			start: base,
			end:   base.Add(time.Hour),
			want:  []Segment{{day0, "0"}},
		},
		{
			name:  "hour to ten minute corner case",
			start: base.Add(time.Hour),
			end:   base.Add(time.Hour + 10*time.Minute),
			want:  []Segment{{day0, "1,00"}},
		},
		{
			name:  "whole hour plus remainder",
			start: base.Add(5 * time.Hour),
			end:   base.Add(6*time.Hour + 10*time.Minute),
			want:  []Segment{{day0, "5"}, {day0, "6,00"}},
		},
		{
			name:  "unaligned bounds floor to ten minutes",
			start: base.Add(22*time.Hour + 53*time.Minute + 7*time.Second),
			end:   base.Add(23*time.Hour + 9*time.Minute),
			want:  []Segment{{day0, "22,50"}},
		},
		{
			name:  "two whole days",
			start: base,
			end:   base.AddDate(0, 0, 2),
			want:  []Segment{{day0, "-1"}, {day1, "-1"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Windows(tt.start, tt.end, false)
			assert.Equal(t, tt.want, got)

			// Reverse must be the exact mirror image.
			rev := Windows(tt.start, tt.end, true)
			assert.Len(t, rev, len(tt.want))
			for i, seg := range rev {
				assert.Equal(t, tt.want[len(tt.want)-1-i], seg)
			}
		})
	}
}

func TestWindowsNonUTC(t *testing.T) {
	// Bounds in other zones are converted to UTC before enumeration.
	zone := time.FixedZone("UTC+2", 2*60*60)
	start := time.Date(2021, time.April, 12, 7, 0, 0, 0, zone)
	end := time.Date(2021, time.April, 12, 8, 10, 0, 0, zone)

	got := Windows(start, end, false)
	want := []Segment{{"20210412", "5"}, {"20210412", "6,00"}}
	assert.Equal(t, want, got)
}
