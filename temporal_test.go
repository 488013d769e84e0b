package jsonrw

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadInstant(t *testing.T) {
	r := readerFor(`"2024-03-15T10:30:00Z"`)
	got, err := r.ReadInstant()
	require.NoError(t, err)
	want := time.Date(2024, 3, 15, 10, 30, 0, 0, time.UTC)
	assert.True(t, got.Equal(want))
}

func TestReadInstantWithFraction(t *testing.T) {
	r := readerFor(`"2024-03-15T10:30:00.5Z"`)
	got, err := r.ReadInstant()
	require.NoError(t, err)
	assert.Equal(t, 500000000, got.Nanosecond())
}

func TestReadInstantRejectsNonZeroOffset(t *testing.T) {
	r := readerFor(`"2024-03-15T10:30:00+02:00"`)
	_, err := r.ReadInstant()
	require.Error(t, err)
}

func TestReadOffsetDateTime(t *testing.T) {
	r := readerFor(`"2024-03-15T10:30:00+02:00"`)
	got, err := r.ReadOffsetDateTime()
	require.NoError(t, err)
	_, offset := got.Zone()
	assert.Equal(t, 7200, offset)
}

func TestReadLocalDate(t *testing.T) {
	r := readerFor(`"2024-03-15"`)
	got, err := r.ReadLocalDate()
	require.NoError(t, err)
	assert.Equal(t, LocalDate{Year: 2024, Month: 3, Day: 15}, got)
}

func TestReadLocalDateInvalidDay(t *testing.T) {
	r := readerFor(`"2024-02-30"`)
	_, err := r.ReadLocalDate()
	require.Error(t, err)
	var rerr *ReaderError
	require.ErrorAs(t, err, &rerr)
	assert.Equal(t, KindIllegalDay, rerr.Kind)
}

func TestReadLocalDateLeapYear(t *testing.T) {
	r := readerFor(`"2024-02-29"`)
	got, err := r.ReadLocalDate()
	require.NoError(t, err)
	assert.Equal(t, 29, got.Day)
}

func TestReadLocalTime(t *testing.T) {
	r := readerFor(`"23:59:59.123"`)
	got, err := r.ReadLocalTime()
	require.NoError(t, err)
	assert.Equal(t, LocalTime{Hour: 23, Minute: 59, Second: 59, Nanosecond: 123000000}, got)
}

func TestReadYearMonth(t *testing.T) {
	r := readerFor(`"2024-03"`)
	got, err := r.ReadYearMonth()
	require.NoError(t, err)
	assert.Equal(t, YearMonth{Year: 2024, Month: 3}, got)
}

func TestReadMonthDay(t *testing.T) {
	r := readerFor(`"--03-15"`)
	got, err := r.ReadMonthDay()
	require.NoError(t, err)
	assert.Equal(t, MonthDay{Month: 3, Day: 15}, got)
}

func TestReadDuration(t *testing.T) {
	r := readerFor(`"PT1H30M"`)
	got, err := r.ReadDuration()
	require.NoError(t, err)
	assert.Equal(t, 90*time.Minute, got)
}

func TestReadDurationWithFractionalSeconds(t *testing.T) {
	r := readerFor(`"PT0.5S"`)
	got, err := r.ReadDuration()
	require.NoError(t, err)
	assert.Equal(t, 500*time.Millisecond, got)
}

func TestReadDurationDays(t *testing.T) {
	r := readerFor(`"P2DT3H"`)
	got, err := r.ReadDuration()
	require.NoError(t, err)
	assert.Equal(t, 2*24*time.Hour+3*time.Hour, got)
}

func TestReadWriteDurationNegativeComponentsRoundTrip(t *testing.T) {
	r := readerFor(`"PT-1M-0.000000001S"`)
	got, err := r.ReadDuration()
	require.NoError(t, err)
	assert.Equal(t, time.Duration(-60_000_000_001), got)

	w := NewWriter(nil, nil)
	require.NoError(t, w.WriteDuration(got))
	assert.Equal(t, `"PT-1M-0.000000001S"`, string(w.Bytes()))
}

func TestReadPeriod(t *testing.T) {
	r := readerFor(`"P1Y2M3D"`)
	got, err := r.ReadPeriod()
	require.NoError(t, err)
	assert.Equal(t, Period{Years: 1, Months: 2, Days: 3}, got)
}

func TestWriteReadInstantRoundTrip(t *testing.T) {
	in := time.Date(2024, 3, 15, 10, 30, 0, 500000000, time.UTC)
	w := NewWriter(nil, nil)
	require.NoError(t, w.WriteInstant(in))
	r := NewReader(DefaultReaderConfig())
	r.resetForSlice(w.Bytes())
	got, err := r.ReadInstant()
	require.NoError(t, err)
	assert.True(t, in.Equal(got))
}

func TestZoneForOffsetSecondsCache(t *testing.T) {
	loc1 := zoneForOffsetSeconds(7200)
	loc2 := zoneForOffsetSeconds(7200)
	assert.Same(t, loc1, loc2)
}

func TestLoadZoneByIDCache(t *testing.T) {
	loc1, err := loadZoneByID("UTC")
	require.NoError(t, err)
	loc2, err := loadZoneByID("UTC")
	require.NoError(t, err)
	assert.Same(t, loc1, loc2)
}
