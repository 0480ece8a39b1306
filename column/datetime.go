package column

import (
	"math"
	"strings"
	"time"

	"github.com/opdss/xltable/cell"
	"github.com/opdss/xltable/style"
	"github.com/spf13/cast"
)

type timeMode uint8

const (
	modeDateTime timeMode = iota
	modeDate
	modeTime
)

var clockLayouts = []string{"15:04:05.999999999", "15:04:05", "15:04"}

// DateTime 日期时间列，读取结果为 time.Time（UTC）
func DateTime(attribute string, opts ...Option) *Column {
	c := newColumn(KindDateTime, attribute, style.RowDatetimeName, opts)
	return c.finish(timeCodec{mode: modeDateTime, typ: "datetime"})
}

// Date 日期列，只保留年月日
func Date(attribute string, opts ...Option) *Column {
	c := newColumn(KindDate, attribute, style.RowDateName, opts)
	return c.finish(timeCodec{mode: modeDate, typ: "date"})
}

// Year 以年份格式显示的日期列
func Year(attribute string, opts ...Option) *Column {
	c := newColumn(KindYear, attribute, style.RowYearName, opts)
	return c.finish(timeCodec{mode: modeDate, typ: "date"})
}

// Time 时间列，读取结果为当天的时长 time.Duration
func Time(attribute string, opts ...Option) *Column {
	c := newColumn(KindTime, attribute, style.RowTimeName, opts)
	return c.finish(timeCodec{mode: modeTime, typ: "time"})
}

type timeCodec struct {
	mode timeMode
	typ  string
}

func (tc timeCodec) parseErr() error { return &ParseError{Type: tc.typ} }

func (tc timeCodec) encode(v any, _ int) (cell.Value, error) {
	if tc.mode == modeTime {
		d, ok := toClock(v)
		if !ok {
			return cell.Blank(), tc.parseErr()
		}
		return cell.Number(cell.DurationToFraction(d)), nil
	}

	var t time.Time
	switch x := v.(type) {
	case time.Time:
		t = x
	case string:
		var err error
		if t, err = cast.StringToDate(strings.TrimSpace(x)); err != nil {
			return cell.Blank(), tc.parseErr()
		}
	default:
		return cell.Blank(), tc.parseErr()
	}
	serial, err := cell.TimeToSerial(t)
	if err != nil {
		return cell.Blank(), tc.parseErr()
	}
	if tc.mode == modeDate {
		serial = math.Floor(serial)
	}
	return cell.Number(serial), nil
}

func (tc timeCodec) decode(v cell.Value) (any, error) {
	if tc.mode == modeTime {
		d, ok := clockFromCell(v)
		if !ok {
			return nil, tc.parseErr()
		}
		return d, nil
	}

	var t time.Time
	switch v.Kind() {
	case cell.KindTime:
		t = v.Time()
	case cell.KindNumber:
		var err error
		if t, err = cell.SerialToTime(v.Number()); err != nil {
			return nil, tc.parseErr()
		}
	case cell.KindText:
		var err error
		if t, err = cast.StringToDate(strings.TrimSpace(v.Text())); err != nil {
			return nil, tc.parseErr()
		}
	default:
		return nil, tc.parseErr()
	}
	if tc.mode == modeDate {
		t = time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	}
	return t, nil
}

func toClock(v any) (time.Duration, bool) {
	switch x := v.(type) {
	case time.Duration:
		if x < 0 || x >= 24*time.Hour {
			return 0, false
		}
		return x, true
	case time.Time:
		return cell.TimeOfDay(x), true
	case string:
		return parseClock(x)
	}
	return 0, false
}

func parseClock(s string) (time.Duration, bool) {
	s = strings.TrimSpace(s)
	for _, layout := range clockLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return cell.TimeOfDay(t), true
		}
	}
	return 0, false
}

func clockFromCell(v cell.Value) (time.Duration, bool) {
	switch v.Kind() {
	case cell.KindNumber:
		f := v.Number()
		if f < 0 || math.IsNaN(f) || math.IsInf(f, 0) {
			return 0, false
		}
		return cell.FractionToDuration(f - math.Floor(f)), true
	case cell.KindTime:
		return cell.TimeOfDay(v.Time()), true
	case cell.KindText:
		return parseClock(v.Text())
	}
	return 0, false
}
