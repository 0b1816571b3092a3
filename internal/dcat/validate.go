package dcat

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"
)

const dateLayout = "2006-01-02"

var (
	// ErrInvalidDate 日期格式错误或日期不存在
	ErrInvalidDate = errors.New("invalid date")
	// ErrInvalidDateInterval 结束日期早于开始日期
	ErrInvalidDateInterval = errors.New("invalid date interval")
	// ErrInvalidURI URI 格式错误
	ErrInvalidURI = errors.New("invalid URI")
)

// NewPeriodOfTime 校验并创建时间范围，任一端可为空
func NewPeriodOfTime(start, end string) (PeriodOfTime, error) {
	startDate, err := parseDate(start)
	if err != nil {
		return PeriodOfTime{}, err
	}
	endDate, err := parseDate(end)
	if err != nil {
		return PeriodOfTime{}, err
	}

	if !startDate.IsZero() && !endDate.IsZero() && endDate.Before(startDate) {
		return PeriodOfTime{}, fmt.Errorf("%w: end date %s is before start date %s", ErrInvalidDateInterval, end, start)
	}

	return PeriodOfTime{StartDate: start, EndDate: end}, nil
}

func parseDate(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(dateLayout, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, value)
	}
	return t, nil
}

// ValidateURI 校验绝对 URI
func ValidateURI(value string) error {
	if value == "" || strings.ContainsAny(value, " \t\r\n<>\"") {
		return fmt.Errorf("%w: %q", ErrInvalidURI, value)
	}

	u, err := url.Parse(value)
	if err != nil {
		return fmt.Errorf("%w: %q: %v", ErrInvalidURI, value, err)
	}
	if u.Scheme == "" || (u.Host == "" && u.Opaque == "") {
		return fmt.Errorf("%w: %q", ErrInvalidURI, value)
	}
	return nil
}
