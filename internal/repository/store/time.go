package store

import (
	"database/sql/driver"
	"fmt"
	"time"
)

// Layouts accepted when a driver hands timestamps back as text (sqlite without
// a declared type, mysql without parseTime).
var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// sqlTime scans any driver representation of a timestamp into UTC.
type sqlTime struct {
	Time time.Time
}

func (t *sqlTime) Scan(src any) error {
	switch v := src.(type) {
	case time.Time:
		t.Time = v.UTC()
		return nil
	case string:
		return t.parse(v)
	case []byte:
		return t.parse(string(v))
	case nil:
		return fmt.Errorf("store: cannot scan NULL into timestamp")
	}
	return fmt.Errorf("store: unsupported timestamp type %T", src)
}

func (t *sqlTime) parse(s string) error {
	for _, layout := range timeLayouts {
		if parsed, err := time.Parse(layout, s); err == nil {
			t.Time = parsed.UTC()
			return nil
		}
	}
	return fmt.Errorf("store: cannot parse timestamp %q", s)
}

// nullSQLTime is the nullable variant used for updated_at.
type nullSQLTime struct {
	Time  time.Time
	Valid bool
}

func (t *nullSQLTime) Scan(src any) error {
	if src == nil {
		t.Time, t.Valid = time.Time{}, false
		return nil
	}
	var inner sqlTime
	if err := inner.Scan(src); err != nil {
		return err
	}
	t.Time, t.Valid = inner.Time, true
	return nil
}

// timeValue normalises a write value so every driver stores UTC.
func timeValue(t *time.Time) driver.Value {
	if t == nil {
		return nil
	}
	return t.UTC()
}
