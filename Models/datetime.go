package Models

import (
	"bytes"
	"database/sql/driver"
	"fmt"
	"time"
)

// LocalDateTimeLayout is the zone-less wire format used by the frontend.
const LocalDateTimeLayout = "2006-01-02T15:04:05"

var acceptedLayouts = []string{
	LocalDateTimeLayout,
	"2006-01-02T15:04",
	time.RFC3339Nano,
	"2006-01-02 15:04:05",
}

// LocalDateTime is a wall-clock timestamp without a zone. Values are kept in UTC
// so range queries compare consistently across drivers. The zero value is NULL.
type LocalDateTime struct {
	time.Time
}

func NewLocalDateTime(t time.Time) LocalDateTime {
	if t.IsZero() {
		return LocalDateTime{}
	}
	return LocalDateTime{Time: time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), time.UTC)}
}

// ParseLocalDateTime accepts the layouts browsers and the API produce.
func ParseLocalDateTime(s string) (LocalDateTime, error) {
	for _, layout := range acceptedLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			if layout == time.RFC3339Nano {
				t = t.UTC()
			}
			return NewLocalDateTime(t), nil
		}
	}
	return LocalDateTime{}, fmt.Errorf("invalid date-time %q, expected %s", s, LocalDateTimeLayout)
}

func (t LocalDateTime) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}
	return []byte(`"` + t.Format(LocalDateTimeLayout) + `"`), nil
}

func (t *LocalDateTime) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) || bytes.Equal(data, []byte(`""`)) {
		*t = LocalDateTime{}
		return nil
	}
	if len(data) < 2 || data[0] != '"' || data[len(data)-1] != '"' {
		return fmt.Errorf("invalid date-time %s", data)
	}
	parsed, err := ParseLocalDateTime(string(data[1 : len(data)-1]))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// GormDataType maps the column to the driver's native date-time type.
func (LocalDateTime) GormDataType() string {
	return "time"
}

func (t LocalDateTime) Value() (driver.Value, error) {
	if t.IsZero() {
		return nil, nil
	}
	return t.Time.UTC(), nil
}

func (t *LocalDateTime) Scan(value interface{}) error {
	switch v := value.(type) {
	case nil:
		*t = LocalDateTime{}
	case time.Time:
		*t = NewLocalDateTime(v.UTC())
	case []byte:
		return t.scanString(string(v))
	case string:
		return t.scanString(v)
	default:
		return fmt.Errorf("cannot scan %T into LocalDateTime", value)
	}
	return nil
}

func (t *LocalDateTime) scanString(s string) error {
	for _, layout := range []string{"2006-01-02 15:04:05.999999999-07:00", "2006-01-02 15:04:05.999999999", time.RFC3339Nano} {
		if parsed, err := time.Parse(layout, s); err == nil {
			*t = NewLocalDateTime(parsed.UTC())
			return nil
		}
	}
	parsed, err := ParseLocalDateTime(s)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}
