package models

import (
	"strings"
	"time"
)

// ParseMonth normalises a month name ("march", "MARCH") to its canonical
// English form ("March").
func ParseMonth(name string) (string, bool) {
	name = strings.TrimSpace(name)
	for m := time.January; m <= time.December; m++ {
		if strings.EqualFold(m.String(), name) {
			return m.String(), true
		}
	}
	return "", false
}
