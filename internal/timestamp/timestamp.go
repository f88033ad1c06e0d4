// Package timestamp formats creation times the way they are stored on products.
package timestamp

import "time"

// Layout is ISO-8601 in UTC with second precision, e.g. 2024-05-01T13:04:05Z.
const Layout = "2006-01-02T15:04:05Z"

// Current returns the current instant formatted with Layout.
func Current() string {
	return Format(time.Now())
}

// Format converts t to UTC and formats it with Layout.
func Format(t time.Time) string {
	return t.UTC().Format(Layout)
}

// Parse reads a value produced by Format.
func Parse(s string) (time.Time, error) {
	return time.ParseInLocation(Layout, s, time.UTC)
}
