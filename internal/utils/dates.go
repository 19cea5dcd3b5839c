package utils

import (
	"time"
)

// ParseFlexibleDate aceita RFC3339 ou apenas a data (YYYY-MM-DD).
// endOfDay define se o formato curto expande para 00:00 ou 23:59:59.
func ParseFlexibleDate(value string, endOfDay bool) (time.Time, error) {
	// Tenta primeiro o formato com hora
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		return time.Time{}, err
	}
	if endOfDay {
		return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, 999999999, time.UTC), nil
	}
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
}

// DateRangeOrDefault resolve o período de consulta com default de 30 dias
func DateRangeOrDefault(from, to string) (time.Time, time.Time, error) {
	now := time.Now().UTC()
	fromTime := now.AddDate(0, 0, -30)
	toTime := now

	if from != "" {
		t, err := ParseFlexibleDate(from, false)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
		fromTime = t
	}
	if to != "" {
		t, err := ParseFlexibleDate(to, true)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
		toTime = t
	}
	return fromTime, toTime, nil
}
