// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package post

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cast"
)

// fallbackLayouts covers exports that cast does not recognise, such as
// Rails' "2006-01-02 15:04:05 UTC" and PostgreSQL's timestamptz text
// "2006-01-02 15:04:05+00". Fractional seconds after the seconds field are
// accepted by every layout that has one.
var fallbackLayouts = []string{
	"2006-01-02 15:04:05 MST",
	"2006-01-02 15:04 MST",
	"2006-01-02 15:04:05-07",
	"2006-01-02 15:04:05-07:00",
	"2006-01-02 15:04:05 -0700",
	"2006-01-02T15:04",
	"2006-01-02 15:04",
	"2006/01/02 15:04:05",
	"2006/01/02 15:04",
	"2006/01/02",
	"January 2, 2006 15:04",
	"January 2, 2006",
	"Jan 2, 2006",
	"2 January 2006",
}

// DateError reports a publish date that could not be parsed.
type DateError struct {
	Raw string
	Err error
}

func (e *DateError) Error() string {
	return fmt.Sprintf("invalid publish date %q: %v", e.Raw, e.Err)
}

func (e *DateError) Unwrap() error {
	return e.Err
}

// ParseDate parses a timestamp in one of the common textual layouts
// (RFC 3339, YYYY-MM-DD, "YYYY-MM-DD HH:MM:SS" with or without a zone or
// numeric offset, minute-precision ISO, slash dates, "January 2, 2006",
// RFC 1123, Unix and Ruby date strings). Values without a zone are UTC.
func ParseDate(raw string) (time.Time, error) {
	s := strings.TrimSpace(raw)
	t, err := cast.ToTimeE(s)
	if err == nil {
		return t, nil
	}
	for _, layout := range fallbackLayouts {
		if ft, ferr := time.ParseInLocation(layout, s, time.UTC); ferr == nil {
			return ft, nil
		}
	}
	return time.Time{}, &DateError{Raw: raw, Err: err}
}
