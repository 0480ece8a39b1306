package cell

import (
	"errors"
	"math"
	"time"
)

const (
	secondsPerDay = 24 * 60 * 60
	msPerDay      = secondsPerDay * 1000
)

var (
	// 1900-03-01 之后的日期以 1899-12-30 为基准
	epoch = time.Date(1899, 12, 30, 0, 0, 0, 0, time.UTC)
	// 1900-03-01 之前的日期少算了不存在的 1900-02-29
	earlyEpoch = time.Date(1899, 12, 31, 0, 0, 0, 0, time.UTC)
	leapCutoff = time.Date(1900, 3, 1, 0, 0, 0, 0, time.UTC)
	minDate    = time.Date(1900, 1, 1, 0, 0, 0, 0, time.UTC)
)

// ErrSerialRange 序列号小于1或者日期早于1900-01-01
var ErrSerialRange = errors.New("date out of range for the 1900 date system")

// SerialToTime 把1900日期系统的序列号转换为时间，结果的时区为UTC
//
// 序列号 60 对应不存在的 1900-02-29，按 1900-03-01 处理。
func SerialToTime(serial float64) (time.Time, error) {
	if math.IsNaN(serial) || math.IsInf(serial, 0) || serial < 1 {
		return time.Time{}, ErrSerialRange
	}
	days := math.Floor(serial)
	base := epoch
	if serial < 61 {
		base = earlyEpoch
	}
	t := base.AddDate(0, 0, int(days))
	return t.Add(FractionToDuration(serial - days)), nil
}

// TimeToSerial 把时间转换为1900日期系统的序列号，使用时间自身时区的年月日时分秒
func TimeToSerial(t time.Time) (float64, error) {
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	if day.Before(minDate) {
		return 0, ErrSerialRange
	}
	base := epoch
	if day.Before(leapCutoff) {
		base = earlyEpoch
	}
	days := (day.Unix() - base.Unix()) / secondsPerDay
	return float64(days) + DurationToFraction(TimeOfDay(t)), nil
}

// FractionToDuration 一天中的比例转换为时长，精确到毫秒
func FractionToDuration(frac float64) time.Duration {
	return time.Duration(math.Round(frac*msPerDay)) * time.Millisecond
}

// DurationToFraction 时长转换为一天中的比例
func DurationToFraction(d time.Duration) float64 {
	return float64(d.Milliseconds()) / msPerDay
}

// TimeOfDay 一天中已经过去的时长，精确到毫秒
func TimeOfDay(t time.Time) time.Duration {
	h, m, s := t.Clock()
	return time.Duration(h)*time.Hour + time.Duration(m)*time.Minute +
		time.Duration(s)*time.Second + time.Duration(t.Nanosecond()).Round(time.Millisecond)
}
