package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// DateError 日期格式错误
type DateError struct {
	Value string
}

func (e *DateError) Error() string {
	return fmt.Sprintf("%q is not a valid date", e.Value)
}

// Date 可选日期字段，区分未传与显式 null
// 不带时区的格式按 UTC 解析
type Date struct {
	Time    time.Time
	Present bool
	Null    bool
}

func (d *Date) UnmarshalJSON(data []byte) error {
	d.Present = true
	if bytes.Equal(data, []byte("null")) {
		d.Null = true
		return nil
	}

	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return &DateError{Value: string(data)}
	}
	t, err := ParseDate(raw)
	if err != nil {
		return err
	}
	d.Time = t
	return nil
}

// Ptr 返回解析后的时间，未传或 null 时返回 nil
func (d Date) Ptr() *time.Time {
	if !d.Present || d.Null {
		return nil
	}
	t := d.Time.UTC()
	return &t
}

// ParseDate 解析 RFC3339、"2006-01-02 15:04:05" 与 "2006-01-02"
func ParseDate(s string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t, nil
		}
	}
	return time.Time{}, &DateError{Value: s}
}
