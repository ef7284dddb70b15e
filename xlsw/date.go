package xlsw

import (
	"regexp"
	"strconv"
)

var (
	serialDateRe = regexp.MustCompile(`(\d{4})-(\d{2})-(\d{2})`)
	serialTimeRe = regexp.MustCompile(`(\d+):(\d{2}):(\d{2})`)
)

// dateToSerial converts a "YYYY-MM-DD", "H:MM:SS" or combined string into
// the 1900-system serial number: whole days since the epoch plus the time
// of day as a fraction. The 1900 system counts a February 29th that never
// happened; that bug is reproduced on purpose, since every consumer of the
// format expects it. Out-of-range dates yield 0.
func dateToSerial(input string) float64 {
	var seconds float64
	var ymd string
	var year, month, day int

	if m := serialDateRe.FindStringSubmatch(input); m != nil {
		ymd = m[0]
		year, _ = strconv.Atoi(m[1])
		month, _ = strconv.Atoi(m[2])
		day, _ = strconv.Atoi(m[3])
	}
	if m := serialTimeRe.FindStringSubmatch(input); m != nil {
		hour, _ := strconv.Atoi(m[1])
		min, _ := strconv.Atoi(m[2])
		sec, _ := strconv.Atoi(m[3])
		seconds = float64(hour*3600+min*60+sec) / 86400
	}

	// The epoch boundary and the phantom leap day are fixed points.
	switch ymd {
	case "":
		return seconds
	case "1899-12-31", "1900-01-00":
		return seconds
	case "1900-02-29":
		return 60 + seconds
	}

	leap := year%400 == 0 || (year%4 == 0 && year%100 != 0)
	mdays := [12]int{31, 28, 31, 30, 31, 30, 31, 31, 30, 31, 30, 31}
	if leap {
		mdays[1] = 29
	}
	if year < 1900 || year > 9999 || month < 1 || month > 12 || day < 1 || day > mdays[month-1] {
		return 0
	}

	// Days since the epoch, with 4/100/400-year leap corrections. The
	// division terms count the current year's leap day too, which either
	// has not happened yet or is already inside the month sum, so it is
	// taken back out.
	rng := year - 1900
	days := day
	for i := 0; i < month-1; i++ {
		days += mdays[i]
	}
	days += rng * 365
	days += rng / 4
	days -= rng / 100
	days += (rng + 300) / 400
	if leap {
		days--
	}
	// Skip over the spurious 1900-02-29 slot.
	if days > 59 {
		days++
	}
	return float64(days) + seconds
}
