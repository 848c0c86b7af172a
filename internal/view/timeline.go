package view

import (
	"sort"
	"time"

	"alertview-go/internal/domain"
)

// Bucket is one hour of the alert timeline.
type Bucket struct {
	// HourStart is the bucket's start in Unix seconds, aligned to the hour.
	HourStart int64 `json:"hour_start"`

	// Label is the bucket's start formatted for display.
	Label string `json:"label"`

	// Count is the number of alerts that started within the hour.
	Count int `json:"count"`
}

const secondsPerHour = int64(3600)

// Timeline computes the per-hour histogram of alert start times. Alerts
// without a start time (zero epoch) are skipped. Buckets come back in
// chronological order; empty hours are omitted.
func Timeline(alerts []domain.Alert) []Bucket {
	counts := make(map[int64]int)
	for _, a := range alerts {
		if a.StartEpoch == 0 {
			continue
		}
		hour := a.StartEpoch - a.StartEpoch%secondsPerHour
		counts[hour]++
	}

	buckets := make([]Bucket, 0, len(counts))
	for hour, count := range counts {
		buckets = append(buckets, Bucket{
			HourStart: hour,
			Label:     time.Unix(hour, 0).Format("2006-01-02 15:00"),
			Count:     count,
		})
	}
	sort.Slice(buckets, func(i, j int) bool {
		return buckets[i].HourStart < buckets[j].HourStart
	})
	return buckets
}
