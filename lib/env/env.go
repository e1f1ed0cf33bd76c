// Package env reads the environment variables shared by the libraries and the CLI.
package env

import (
	"os"
	"strconv"
)

// Debug reports whether $DEBUG is set to anything but 0 or false.
func Debug() bool {
	switch os.Getenv("DEBUG") {
	case "", "0", "false":
		return false
	}
	return true
}

// Timeout is $LIFEGRAPH_TIMEOUT in seconds.
func Timeout() (int, bool) {
	s := os.Getenv("LIFEGRAPH_TIMEOUT")
	if s == "" {
		return -1, false
	}
	i, err := strconv.Atoi(s)
	if err != nil {
		return -1, false
	}
	return i, true
}
