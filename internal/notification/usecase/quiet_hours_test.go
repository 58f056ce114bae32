package usecase

import (
	"testing"
	"time"

	"jobs-srv/internal/model"

	"github.com/stretchr/testify/assert"
)

func TestQuietHoursDeferral(t *testing.T) {
	window := func(start, end string) *model.QuietHours {
		return &model.QuietHours{Enabled: true, Start: start, End: end, Timezone: "UTC"}
	}
	at := func(hour, minute int) time.Time {
		return time.Date(2026, 3, 10, hour, minute, 0, 0, time.UTC)
	}

	tests := []struct {
		name       string
		q          *model.QuietHours
		now        time.Time
		wantQuiet  bool
		wantResume time.Time
	}{
		{
			name: "nil window", q: nil, now: at(23, 0),
		},
		{
			name: "disabled window", now: at(23, 0),
			q: &model.QuietHours{Enabled: false, Start: "22:00", End: "07:00", Timezone: "UTC"},
		},
		{
			name: "inside same-day window", q: window("13:00", "15:00"), now: at(14, 0),
			wantQuiet: true, wantResume: at(15, 0),
		},
		{
			name: "start boundary is inside", q: window("13:00", "15:00"), now: at(13, 0),
			wantQuiet: true, wantResume: at(15, 0),
		},
		{
			name: "end boundary is outside", q: window("13:00", "15:00"), now: at(15, 0),
		},
		{
			name: "wraparound before midnight", q: window("22:00", "07:00"), now: at(23, 30),
			wantQuiet: true, wantResume: time.Date(2026, 3, 11, 7, 0, 0, 0, time.UTC),
		},
		{
			name: "wraparound after midnight", q: window("22:00", "07:00"), now: at(6, 0),
			wantQuiet: true, wantResume: at(7, 0),
		},
		{
			name: "wraparound daytime is outside", q: window("22:00", "07:00"), now: at(12, 0),
		},
		{
			name: "malformed start disables the window", q: window("25:00", "07:00"), now: at(23, 0),
		},
		{
			name: "equal start and end disables the window", q: window("08:00", "08:00"), now: at(8, 0),
		},
		{
			name: "unknown timezone falls back to UTC", now: at(23, 0),
			q:         &model.QuietHours{Enabled: true, Start: "22:00", End: "07:00", Timezone: "Not/AZone"},
			wantQuiet: true, wantResume: time.Date(2026, 3, 11, 7, 0, 0, 0, time.UTC),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resume, quiet := quietHoursDeferral(tt.q, tt.now)
			assert.Equal(t, tt.wantQuiet, quiet)
			if tt.wantQuiet {
				assert.Equal(t, tt.wantResume, resume)
			}
		})
	}
}
