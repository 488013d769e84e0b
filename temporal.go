package jsonrw

import (
	"time"

	"github.com/puzpuzpuz/xsync/v4"
)

// zoneIDCache memoizes time.LoadLocation lookups behind a lock-free map,
// per spec.md §5's concurrent zone-id cache requirement. Shared across all
// Reader/Writer instances; safe for concurrent use by design.
var zoneIDCache = xsync.NewMap[string, *time.Location]()

func loadZoneByID(id string) (*time.Location, error) {
	if loc, ok := zoneIDCache.Load(id); ok {
		return loc, nil
	}
	loc, err := time.LoadLocation(id)
	if err != nil {
		return nil, err
	}
	actual, _ := zoneIDCache.LoadOrStore(id, loc)
	return actual, nil
}

// zoneOffsetCache is the dense array cache described in spec.md §5: fixed
// UTC offsets in quarter-hour steps from -18h to +18h (145 entries)
// returned without any map lookup or allocation once warmed.
var zoneOffsetCache [145]*time.Location

const zoneOffsetCacheStep = 15 * 60 // seconds per quarter hour
const zoneOffsetCacheBase = -18 * 3600

func zoneForOffsetSeconds(offsetSeconds int) *time.Location {
	idx := (offsetSeconds - zoneOffsetCacheBase) / zoneOffsetCacheStep
	if idx < 0 || idx >= len(zoneOffsetCache) || (offsetSeconds-zoneOffsetCacheBase)%zoneOffsetCacheStep != 0 {
		return time.FixedZone(formatOffsetName(offsetSeconds), offsetSeconds)
	}
	if loc := zoneOffsetCache[idx]; loc != nil {
		return loc
	}
	loc := time.FixedZone(formatOffsetName(offsetSeconds), offsetSeconds)
	zoneOffsetCache[idx] = loc
	return loc
}

func formatOffsetName(offsetSeconds int) string {
	if offsetSeconds == 0 {
		return "UTC"
	}
	sign := byte('+')
	s := offsetSeconds
	if s < 0 {
		sign = '-'
		s = -s
	}
	h, m := s/3600, (s%3600)/60
	buf := []byte{'U', 'T', 'C', sign, '0' + byte(h/10), '0' + byte(h%10), ':', '0' + byte(m/10), '0' + byte(m%10)}
	return string(buf)
}

// --- ISO-8601 component parsers, per spec.md §4.2's temporal engine ---

func (r *Reader) readDigits(n int) (int, error) {
	v := 0
	for i := 0; i < n; i++ {
		b, err := r.nextByte()
		if err != nil {
			return 0, err
		}
		if b < '0' || b > '9' {
			return 0, r.errAtf(KindIllegalNumber, r.pos()-1, "expected digit, got %q", b)
		}
		v = v*10 + int(b-'0')
	}
	return v, nil
}

func (r *Reader) expectByte(want byte, kind Kind) error {
	b, err := r.nextByte()
	if err != nil {
		return err
	}
	if b != want {
		return r.errAtf(kind, r.pos()-1, "expected %q, got %q", want, b)
	}
	return nil
}

// LocalDate is a calendar date with no time-of-day or zone component.
type LocalDate struct {
	Year  int
	Month int
	Day   int
}

// readLocalDate parses "YYYY-MM-DD".
func (r *Reader) readLocalDate() (LocalDate, error) {
	neg := false
	b, _, err := r.peekByte(true)
	if err != nil {
		return LocalDate{}, err
	}
	if b == '-' {
		neg = true
		r.ring.head++
	}
	year, err := r.readDigits(4)
	if err != nil {
		return LocalDate{}, err
	}
	if neg {
		year = -year
	}
	if err := r.expectByte('-', KindIllegalYear); err != nil {
		return LocalDate{}, err
	}
	month, err := r.readDigits(2)
	if err != nil {
		return LocalDate{}, err
	}
	if month < 1 || month > 12 {
		return LocalDate{}, r.errAt(KindIllegalMonth, r.pos(), "month out of range")
	}
	if err := r.expectByte('-', KindIllegalMonth); err != nil {
		return LocalDate{}, err
	}
	day, err := r.readDigits(2)
	if err != nil {
		return LocalDate{}, err
	}
	if day < 1 || day > daysInMonth(year, month) {
		return LocalDate{}, r.errAt(KindIllegalDay, r.pos(), "day out of range")
	}
	return LocalDate{Year: year, Month: month, Day: day}, nil
}

func daysInMonth(year, month int) int {
	switch month {
	case 1, 3, 5, 7, 8, 10, 12:
		return 31
	case 4, 6, 9, 11:
		return 30
	case 2:
		if isLeapYear(year) {
			return 29
		}
		return 28
	default:
		return 31
	}
}

func isLeapYear(year int) bool {
	return year%4 == 0 && (year%100 != 0 || year%400 == 0)
}

// LocalTime is a time-of-day with nanosecond precision and no date or zone.
type LocalTime struct {
	Hour       int
	Minute     int
	Second     int
	Nanosecond int
}

// readLocalTime parses "HH:MM[:SS[.fffffffff]]".
func (r *Reader) readLocalTime() (LocalTime, error) {
	hour, err := r.readDigits(2)
	if err != nil {
		return LocalTime{}, err
	}
	if hour > 23 {
		return LocalTime{}, r.errAt(KindIllegalHour, r.pos(), "hour out of range")
	}
	if err := r.expectByte(':', KindIllegalHour); err != nil {
		return LocalTime{}, err
	}
	minute, err := r.readDigits(2)
	if err != nil {
		return LocalTime{}, err
	}
	if minute > 59 {
		return LocalTime{}, r.errAt(KindIllegalMinute, r.pos(), "minute out of range")
	}
	lt := LocalTime{Hour: hour, Minute: minute}

	b, ok, err := r.peekByte(false)
	if err != nil {
		return LocalTime{}, err
	}
	if !ok || b != ':' {
		return lt, nil
	}
	r.ring.head++
	sec, err := r.readDigits(2)
	if err != nil {
		return LocalTime{}, err
	}
	if sec > 60 { // 60 tolerated for leap seconds, per spec.md's temporal engine
		return LocalTime{}, r.errAt(KindIllegalSecond, r.pos(), "second out of range")
	}
	lt.Second = sec

	b, ok, err = r.peekByte(false)
	if err != nil {
		return LocalTime{}, err
	}
	if !ok || b != '.' {
		return lt, nil
	}
	r.ring.head++
	nanos, digits, err := r.readFractionalNanos()
	if err != nil {
		return LocalTime{}, err
	}
	_ = digits
	lt.Nanosecond = nanos
	return lt, nil
}

// readFractionalNanos reads fractional-second digits, scaling runs shorter
// than 9 digits up to nanosecond precision (e.g. ".5" -> 500000000ns) and
// discarding any precision beyond the 9th digit.
func (r *Reader) readFractionalNanos() (int, int, error) {
	digits := 0
	nanos := 0
	for {
		b, ok, err := r.peekByte(false)
		if err != nil {
			return 0, 0, err
		}
		if !ok || b < '0' || b > '9' {
			break
		}
		r.ring.head++
		if digits < 9 {
			nanos = nanos*10 + int(b-'0')
		}
		digits++
	}
	if digits == 0 {
		return 0, 0, r.errAt(KindIllegalNanoseconds, r.pos(), "expected fractional digit")
	}
	for scaled := digits; scaled < 9; scaled++ {
		nanos *= 10
	}
	return nanos, digits, nil
}

// ZoneOffset is a fixed UTC offset in seconds, e.g. +02:00 -> 7200.
type ZoneOffset struct {
	Seconds int
}

// readZoneOffset parses "Z" or "+HH:MM[:SS]"/"-HH:MM[:SS]".
func (r *Reader) readZoneOffset() (ZoneOffset, bool, error) {
	b, err := r.nextByte()
	if err != nil {
		return ZoneOffset{}, false, err
	}
	if b == 'Z' || b == 'z' {
		return ZoneOffset{}, true, nil
	}
	if b != '+' && b != '-' {
		return ZoneOffset{}, false, r.errAtf(KindIllegalTimezoneOffset, r.pos()-1, "expected 'Z' or zone offset sign, got %q", b)
	}
	neg := b == '-'
	hour, err := r.readDigits(2)
	if err != nil {
		return ZoneOffset{}, false, err
	}
	if err := r.expectByte(':', KindIllegalTimezoneOffset); err != nil {
		return ZoneOffset{}, false, err
	}
	minute, err := r.readDigits(2)
	if err != nil {
		return ZoneOffset{}, false, err
	}
	sec := 0
	if b, ok, err := r.peekByte(false); err != nil {
		return ZoneOffset{}, false, err
	} else if ok && b == ':' {
		r.ring.head++
		sec, err = r.readDigits(2)
		if err != nil {
			return ZoneOffset{}, false, err
		}
	}
	if hour > 18 || minute > 59 || sec > 59 {
		return ZoneOffset{}, false, r.errAt(KindIllegalTimezoneOffset, r.pos(), "zone offset out of range")
	}
	total := hour*3600 + minute*60 + sec
	if neg {
		total = -total
	}
	return ZoneOffset{Seconds: total}, false, nil
}

// ReadInstant parses an ISO-8601 instant ("YYYY-MM-DDTHH:MM:SS[.fff]Z")
// as a time.Time in UTC.
func (r *Reader) ReadInstant() (time.Time, error) {
	b, err := r.nextToken()
	if err != nil {
		return time.Time{}, err
	}
	if b != '"' {
		return time.Time{}, r.errAtf(KindUnexpectedToken, r.pos()-1, "expected '\"'")
	}
	date, err := r.readLocalDate()
	if err != nil {
		return time.Time{}, err
	}
	if err := r.expectByte('T', KindIllegalHour); err != nil {
		return time.Time{}, err
	}
	tod, err := r.readLocalTime()
	if err != nil {
		return time.Time{}, err
	}
	off, isZ, err := r.readZoneOffset()
	if err != nil {
		return time.Time{}, err
	}
	if !isZ && off.Seconds != 0 {
		return time.Time{}, r.errAt(KindIllegalTimezone, r.pos(), "Instant requires a 'Z' or zero UTC offset")
	}
	if err := r.expectByte('"', KindUnexpectedToken); err != nil {
		return time.Time{}, err
	}
	return time.Date(date.Year, time.Month(date.Month), date.Day, tod.Hour, tod.Minute, tod.Second, tod.Nanosecond, time.UTC), nil
}

// ReadOffsetDateTime parses "YYYY-MM-DDTHH:MM:SS[.fff]+HH:MM".
func (r *Reader) ReadOffsetDateTime() (time.Time, error) {
	b, err := r.nextToken()
	if err != nil {
		return time.Time{}, err
	}
	if b != '"' {
		return time.Time{}, r.errAtf(KindUnexpectedToken, r.pos()-1, "expected '\"'")
	}
	date, err := r.readLocalDate()
	if err != nil {
		return time.Time{}, err
	}
	if err := r.expectByte('T', KindIllegalHour); err != nil {
		return time.Time{}, err
	}
	tod, err := r.readLocalTime()
	if err != nil {
		return time.Time{}, err
	}
	off, isZ, err := r.readZoneOffset()
	if err != nil {
		return time.Time{}, err
	}
	if err := r.expectByte('"', KindUnexpectedToken); err != nil {
		return time.Time{}, err
	}
	loc := time.UTC
	if !isZ {
		loc = zoneForOffsetSeconds(off.Seconds)
	}
	return time.Date(date.Year, time.Month(date.Month), date.Day, tod.Hour, tod.Minute, tod.Second, tod.Nanosecond, loc), nil
}

// ReadZonedDateTime parses "YYYY-MM-DDTHH:MM:SS[.fff]+HH:MM[Region/City]",
// preferring the bracketed IANA region id over the numeric offset when
// both are present, using the concurrent zoneIDCache.
func (r *Reader) ReadZonedDateTime() (time.Time, error) {
	b, err := r.nextToken()
	if err != nil {
		return time.Time{}, err
	}
	if b != '"' {
		return time.Time{}, r.errAtf(KindUnexpectedToken, r.pos()-1, "expected '\"'")
	}
	date, err := r.readLocalDate()
	if err != nil {
		return time.Time{}, err
	}
	if err := r.expectByte('T', KindIllegalHour); err != nil {
		return time.Time{}, err
	}
	tod, err := r.readLocalTime()
	if err != nil {
		return time.Time{}, err
	}
	off, isZ, err := r.readZoneOffset()
	if err != nil {
		return time.Time{}, err
	}
	loc := time.UTC
	if !isZ {
		loc = zoneForOffsetSeconds(off.Seconds)
	}

	b, ok, err := r.peekByte(false)
	if err != nil {
		return time.Time{}, err
	}
	if ok && b == '[' {
		r.ring.head++
		r.setMark()
		for {
			b, err := r.nextByte()
			if err != nil {
				r.resetMark()
				return time.Time{}, err
			}
			if b == ']' {
				break
			}
		}
		region := r.markedSlice()
		regionID := string(region[:len(region)-1])
		r.resetMark()
		namedLoc, err := loadZoneByID(regionID)
		if err != nil {
			return time.Time{}, r.errAtf(KindIllegalTimezone, r.pos(), "unknown zone id %q: %v", regionID, err)
		}
		loc = namedLoc
	}
	if err := r.expectByte('"', KindUnexpectedToken); err != nil {
		return time.Time{}, err
	}
	return time.Date(date.Year, time.Month(date.Month), date.Day, tod.Hour, tod.Minute, tod.Second, tod.Nanosecond, loc), nil
}

// ReadLocalDate reads a quoted "YYYY-MM-DD" value.
func (r *Reader) ReadLocalDate() (LocalDate, error) {
	if err := r.expectQuote(); err != nil {
		return LocalDate{}, err
	}
	d, err := r.readLocalDate()
	if err != nil {
		return LocalDate{}, err
	}
	return d, r.expectByte('"', KindUnexpectedToken)
}

// ReadLocalTime reads a quoted "HH:MM:SS.fff" value.
func (r *Reader) ReadLocalTime() (LocalTime, error) {
	if err := r.expectQuote(); err != nil {
		return LocalTime{}, err
	}
	t, err := r.readLocalTime()
	if err != nil {
		return LocalTime{}, err
	}
	return t, r.expectByte('"', KindUnexpectedToken)
}

// LocalDateTime combines a LocalDate and LocalTime with no zone.
type LocalDateTime struct {
	Date LocalDate
	Time LocalTime
}

// ReadLocalDateTime reads a quoted "YYYY-MM-DDTHH:MM:SS.fff" value.
func (r *Reader) ReadLocalDateTime() (LocalDateTime, error) {
	if err := r.expectQuote(); err != nil {
		return LocalDateTime{}, err
	}
	date, err := r.readLocalDate()
	if err != nil {
		return LocalDateTime{}, err
	}
	if err := r.expectByte('T', KindIllegalHour); err != nil {
		return LocalDateTime{}, err
	}
	tod, err := r.readLocalTime()
	if err != nil {
		return LocalDateTime{}, err
	}
	if err := r.expectByte('"', KindUnexpectedToken); err != nil {
		return LocalDateTime{}, err
	}
	return LocalDateTime{Date: date, Time: tod}, nil
}

// YearMonth is a calendar year and month with no day.
type YearMonth struct {
	Year  int
	Month int
}

// ReadYearMonth reads a quoted "YYYY-MM" value.
func (r *Reader) ReadYearMonth() (YearMonth, error) {
	if err := r.expectQuote(); err != nil {
		return YearMonth{}, err
	}
	year, err := r.readDigits(4)
	if err != nil {
		return YearMonth{}, err
	}
	if err := r.expectByte('-', KindIllegalYear); err != nil {
		return YearMonth{}, err
	}
	month, err := r.readDigits(2)
	if err != nil {
		return YearMonth{}, err
	}
	if month < 1 || month > 12 {
		return YearMonth{}, r.errAt(KindIllegalMonth, r.pos(), "month out of range")
	}
	return YearMonth{Year: year, Month: month}, r.expectByte('"', KindUnexpectedToken)
}

// MonthDay is a calendar month and day with no year.
type MonthDay struct {
	Month int
	Day   int
}

// ReadMonthDay reads a quoted "--MM-DD" value.
func (r *Reader) ReadMonthDay() (MonthDay, error) {
	if err := r.expectQuote(); err != nil {
		return MonthDay{}, err
	}
	if err := r.expectByte('-', KindIllegalMonth); err != nil {
		return MonthDay{}, err
	}
	if err := r.expectByte('-', KindIllegalMonth); err != nil {
		return MonthDay{}, err
	}
	month, err := r.readDigits(2)
	if err != nil {
		return MonthDay{}, err
	}
	if month < 1 || month > 12 {
		return MonthDay{}, r.errAt(KindIllegalMonth, r.pos(), "month out of range")
	}
	if err := r.expectByte('-', KindIllegalDay); err != nil {
		return MonthDay{}, err
	}
	day, err := r.readDigits(2)
	if err != nil {
		return MonthDay{}, err
	}
	if day < 1 || day > daysInMonth(2000, month) {
		return MonthDay{}, r.errAt(KindIllegalDay, r.pos(), "day out of range")
	}
	return MonthDay{Month: month, Day: day}, r.expectByte('"', KindUnexpectedToken)
}

func (r *Reader) expectQuote() error {
	b, err := r.nextToken()
	if err != nil {
		return err
	}
	if b != '"' {
		return r.errAtf(KindUnexpectedToken, r.pos()-1, "expected '\"'")
	}
	return nil
}

// ReadDuration parses an ISO-8601 duration ("PnDTnHnMnS") as a
// time.Duration, matching spec.md's integer-second/nanosecond components.
func (r *Reader) ReadDuration() (time.Duration, error) {
	if err := r.expectQuote(); err != nil {
		return 0, err
	}
	if err := r.expectByte('P', KindIllegalDuration); err != nil {
		return 0, err
	}
	var total time.Duration
	sawAny := false

	if days, ok, err := r.readDurationComponent('D'); err != nil {
		return 0, err
	} else if ok {
		total += time.Duration(days) * 24 * time.Hour
		sawAny = true
	}

	if b, ok, err := r.peekByte(false); err != nil {
		return 0, err
	} else if ok && b == 'T' {
		r.ring.head++
		if h, ok, err := r.readDurationComponent('H'); err != nil {
			return 0, err
		} else if ok {
			total += time.Duration(h) * time.Hour
			sawAny = true
		}
		if m, ok, err := r.readDurationComponent('M'); err != nil {
			return 0, err
		} else if ok {
			total += time.Duration(m) * time.Minute
			sawAny = true
		}
		if s, ok, err := r.readDurationSecondsComponent(); err != nil {
			return 0, err
		} else if ok {
			total += s
			sawAny = true
		}
	}
	if !sawAny {
		return 0, r.errAt(KindIllegalDuration, r.pos(), "duration has no components")
	}
	return total, r.expectByte('"', KindUnexpectedToken)
}

func (r *Reader) readDurationComponent(unit byte) (int64, bool, error) {
	r.setMark()
	neg := false
	b, ok, err := r.peekByte(false)
	if err != nil {
		r.resetMark()
		return 0, false, err
	}
	if ok && b == '-' {
		neg = true
		r.ring.head++
	}
	v := int64(0)
	digits := 0
	for {
		b, ok, err := r.peekByte(false)
		if err != nil {
			r.resetMark()
			return 0, false, err
		}
		if !ok || b < '0' || b > '9' {
			break
		}
		r.ring.head++
		v = v*10 + int64(b-'0')
		digits++
	}
	if digits == 0 {
		r.rollbackToMark()
		return 0, false, nil
	}
	b, ok, err = r.peekByte(false)
	if err != nil {
		r.resetMark()
		return 0, false, err
	}
	if !ok || b != unit {
		r.rollbackToMark()
		return 0, false, nil
	}
	r.ring.head++
	r.resetMark()
	if neg {
		v = -v
	}
	return v, true, nil
}

func (r *Reader) readDurationSecondsComponent() (time.Duration, bool, error) {
	r.setMark()
	neg := false
	b, ok, err := r.peekByte(false)
	if err != nil {
		r.resetMark()
		return 0, false, err
	}
	if ok && b == '-' {
		neg = true
		r.ring.head++
	}
	secs := int64(0)
	digits := 0
	for {
		b, ok, err := r.peekByte(false)
		if err != nil {
			r.resetMark()
			return 0, false, err
		}
		if !ok || b < '0' || b > '9' {
			break
		}
		r.ring.head++
		secs = secs*10 + int64(b-'0')
		digits++
	}
	var nanos int64
	if b, ok, err := r.peekByte(false); err != nil {
		r.resetMark()
		return 0, false, err
	} else if ok && b == '.' {
		r.ring.head++
		n, fracDigits, err := r.readFractionalNanos()
		if err != nil {
			r.resetMark()
			return 0, false, err
		}
		_ = fracDigits
		nanos = int64(n)
	}
	if digits == 0 {
		r.rollbackToMark()
		return 0, false, nil
	}
	b, ok, err = r.peekByte(false)
	if err != nil {
		r.resetMark()
		return 0, false, err
	}
	if !ok || b != 'S' {
		r.rollbackToMark()
		return 0, false, nil
	}
	r.ring.head++
	r.resetMark()
	total := secs*int64(time.Second) + nanos
	if neg {
		total = -total
	}
	return time.Duration(total), true, nil
}

// Period is a calendar-based amount of time in years, months and days,
// mirroring java.time.Period's model (as distinct from Duration's
// fixed-length seconds/nanoseconds).
type Period struct {
	Years  int
	Months int
	Days   int
}

// ReadPeriod parses an ISO-8601 period ("PnYnMnD").
func (r *Reader) ReadPeriod() (Period, error) {
	if err := r.expectQuote(); err != nil {
		return Period{}, err
	}
	if err := r.expectByte('P', KindIllegalPeriod); err != nil {
		return Period{}, err
	}
	var p Period
	sawAny := false
	if y, ok, err := r.readIntComponent('Y'); err != nil {
		return Period{}, err
	} else if ok {
		p.Years = y
		sawAny = true
	}
	if m, ok, err := r.readIntComponent('M'); err != nil {
		return Period{}, err
	} else if ok {
		p.Months = m
		sawAny = true
	}
	if d, ok, err := r.readIntComponent('D'); err != nil {
		return Period{}, err
	} else if ok {
		p.Days = d
		sawAny = true
	}
	if !sawAny {
		return Period{}, r.errAt(KindIllegalPeriod, r.pos(), "period has no components")
	}
	return p, r.expectByte('"', KindUnexpectedToken)
}

func (r *Reader) readIntComponent(unit byte) (int, bool, error) {
	v, ok, err := r.readDurationComponent(unit)
	return int(v), ok, err
}
