package schedule

import "time"

// slotHours are the business hours offered as meeting starts.
var slotHours = []int{9, 10, 11, 14, 15, 16}

const (
	slotDays  = 3
	slotLimit = 6
)

// Slot is a candidate meeting start.
type Slot struct {
	Start           time.Time `json:"datetime"`
	Date            string    `json:"date"`
	Time            string    `json:"time"`
	DurationMinutes int       `json:"duration_minutes"`
	Participants    []string  `json:"participants"`
}

// SuggestSlots proposes meeting starts over the days after now. It does not
// consult anyone's calendar.
func SuggestSlots(now time.Time, participants []string, duration time.Duration) []Slot {
	if participants == nil {
		participants = []string{}
	}

	slots := make([]Slot, 0, slotLimit)
	for day := 1; day <= slotDays; day++ {
		d := now.AddDate(0, 0, day)
		for _, h := range slotHours {
			if len(slots) == slotLimit {
				return slots
			}
			start := time.Date(d.Year(), d.Month(), d.Day(), h, 0, 0, 0, now.Location())
			slots = append(slots, Slot{
				Start:           start,
				Date:            start.Format("2006-01-02"),
				Time:            start.Format("03:04 PM"),
				DurationMinutes: int(duration / time.Minute),
				Participants:    participants,
			})
		}
	}
	return slots
}
