package model

import "time"

// DateLayout 日期字段统一格式
const DateLayout = "2006-01-02"

// ParseDate 解析 YYYY-MM-DD，结果为 UTC 零点
func ParseDate(s string) (time.Time, error) {
	return time.ParseInLocation(DateLayout, s, time.UTC)
}

// TruncateDate 去掉时分秒，保留日历日（UTC 零点）
func TruncateDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// FormatDatePtr 可空日期格式化
func FormatDatePtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(DateLayout)
	return &s
}

// IsHHMM 校验 24 小时制 HH:MM（两位小时与两位分钟）
func IsHHMM(s string) bool {
	if len(s) != 5 || s[2] != ':' {
		return false
	}
	_, err := time.Parse("15:04", s)
	return err == nil
}
