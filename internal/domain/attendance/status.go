package attendance

import (
	"time"

	"github.com/shopspring/decimal"
)

// Check-in later than 10:15 local time counts as late.
const (
	lateThresholdHour   = 10
	lateThresholdMinute = 15
)

// Working strictly less than four hours demotes the day to a half day.
var halfDayLimit = decimal.NewFromInt(4)

var millisPerHour = decimal.NewFromInt(3600000)

// StatusForCheckIn derives the status at the moment of check-in. Strictly
// after 10:15:00 is late; at or before is present. The rule fires exactly
// once, at check-in; only ApplyCheckOut may override the result afterwards.
func StatusForCheckIn(now time.Time) Status {
	secs := now.Hour()*3600 + now.Minute()*60 + now.Second()
	threshold := lateThresholdHour*3600 + lateThresholdMinute*60
	if secs > threshold || (secs == threshold && now.Nanosecond() > 0) {
		return StatusLate
	}
	return StatusPresent
}

// WorkedHours returns (checkOut - checkIn) in hours, rounded half away from
// zero to two decimals (3.995 rounds to 4.00).
func WorkedHours(checkIn, checkOut time.Time) decimal.Decimal {
	ms := checkOut.Sub(checkIn).Milliseconds()
	return decimal.NewFromInt(ms).Div(millisPerHour).Round(2)
}

// ApplyCheckOut derives the final status and total hours at check-out.
// 0 < hours < 4 collapses the status to halfday regardless of what check-in
// derived (late included); otherwise the prior status stands, defaulting to
// present when none was ever set. Durations are assumed non-negative: server
// time is monotonic and check-out is guarded to follow check-in.
func ApplyCheckOut(checkIn, checkOut time.Time, prior Status) (Status, decimal.Decimal) {
	hours := WorkedHours(checkIn, checkOut)

	if hours.IsPositive() && hours.LessThan(halfDayLimit) {
		return StatusHalfday, hours
	}

	if prior == "" || prior == StatusNotMarked {
		return StatusPresent, hours
	}
	return prior, hours
}
