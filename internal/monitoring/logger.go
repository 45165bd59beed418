// Package monitoring holds the diagnostic logger and frame metrics shared by
// the render builders and the plotctl CLI.
package monitoring

import (
	"fmt"
	"log"
)

// Logf is the package-level diagnostic logger. It defaults to log.Printf but may
// be replaced by SetLogger. Tests or production code can redirect or mute it.
var Logf func(format string, v ...interface{}) = log.Printf

// SetLogger replaces the package logger. Passing nil will set a no-op logger.
func SetLogger(f func(format string, v ...interface{})) {
	if f == nil {
		Logf = func(string, ...interface{}) {}
		return
	}
	Logf = f
}

// Capture redirects Logf into the returned slice until restore is called.
// Intended for tests that assert on skipped draw calls or reallocations.
func Capture() (lines *[]string, restore func()) {
	original := Logf
	captured := []string{}
	Logf = func(format string, v ...interface{}) {
		captured = append(captured, fmt.Sprintf(format, v...))
	}
	return &captured, func() { Logf = original }
}
