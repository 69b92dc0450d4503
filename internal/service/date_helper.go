package service

import (
	"errors"
	"time"

	"navy-training/backend/internal/dto"
	"navy-training/backend/internal/model"
	pkgerrors "navy-training/backend/pkg/errors"
)

// ── 日期相关业务错误（各模块共用）──

var (
	ErrInvalidDate      = errors.New("日期格式错误，应为 YYYY-MM-DD")
	ErrInvalidDateRange = errors.New("结束日期不能早于开始日期")
)

// 开放时间窗的边界
var (
	windowFloor = time.Date(1900, 1, 1, 0, 0, 0, 0, time.UTC)
	windowCeil  = time.Date(9999, 12, 31, 0, 0, 0, 0, time.UTC)
)

func parseDate(field, value string) (time.Time, error) {
	d, err := model.ParseDate(value)
	if err != nil {
		return time.Time{}, pkgerrors.BadRequest(ErrInvalidDate, field, value)
	}
	return d, nil
}

// parseOptionalDate 空字符串返回 nil
func parseOptionalDate(field, value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	d, err := parseDate(field, value)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// parseDateRange 解析起止日期，end 可为空（单日）
func parseDateRange(startField, startValue, endField, endValue string) (time.Time, *time.Time, error) {
	start, err := parseDate(startField, startValue)
	if err != nil {
		return time.Time{}, nil, err
	}
	end, err := parseOptionalDate(endField, endValue)
	if err != nil {
		return time.Time{}, nil, err
	}
	if end != nil && end.Before(start) {
		return time.Time{}, nil, pkgerrors.BadRequest(ErrInvalidDateRange, endField, endValue)
	}
	return start, end, nil
}

// parseWindow 解析可选时间窗
// ok=false 表示两端都未给出；只给一端时另一端开放
func parseWindow(q *dto.DateWindowQuery) (start, end time.Time, ok bool, err error) {
	if q == nil || (q.StartDate == "" && q.EndDate == "") {
		return time.Time{}, time.Time{}, false, nil
	}
	start, end = windowFloor, windowCeil
	if q.StartDate != "" {
		if start, err = parseDate("start_date", q.StartDate); err != nil {
			return
		}
	}
	if q.EndDate != "" {
		if end, err = parseDate("end_date", q.EndDate); err != nil {
			return
		}
	}
	if end.Before(start) {
		err = pkgerrors.BadRequest(ErrInvalidDateRange, "end_date", q.EndDate)
		return
	}
	return start, end, true, nil
}

func formatTime(t time.Time) string {
	return t.Format(time.RFC3339)
}
