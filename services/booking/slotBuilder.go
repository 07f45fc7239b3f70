package booking

import (
	"time"

	"courtbook/models"
	"courtbook/utils"
)

// BuildSlotBoundaries lays out the slots of one day. Boundaries sit at
// opening + k*duration and every slot ends at or before closing. Past dates
// produce nothing; for today the first slot is the first boundary at or after
// now. date is interpreted in now's location.
func BuildSlotBoundaries(hours models.OperatingHours, date string, now time.Time) []models.SlotBoundary {
	dur := hours.SlotDuration
	if dur <= 0 || hours.Opening >= hours.Closing {
		return nil
	}
	if _, err := time.ParseInLocation(utils.DateLayout, date, now.Location()); err != nil {
		return nil
	}

	today := now.Format(utils.DateLayout)
	if date < today {
		return nil
	}

	first := hours.Opening
	if date == today {
		if nowMin := utils.MinuteOfDay(now); nowMin > hours.Opening {
			steps := (nowMin - hours.Opening + dur - 1) / dur
			first = hours.Opening + steps*dur
		}
	}

	var out []models.SlotBoundary
	for start := first; start+dur <= hours.Closing; start += dur {
		out = append(out, models.SlotBoundary{Start: start, End: start + dur})
	}
	return out
}

// elapsed reports whether the slot has ended at now.
func elapsed(slot models.TimeSlot, now time.Time) bool {
	end, err := utils.At(slot.Date, slot.End, now.Location())
	if err != nil {
		return true
	}
	return !end.After(now)
}
