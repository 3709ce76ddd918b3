// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package convert parses loosely typed query string values.

Malformed input never fails a request: the caller names the value to fall
back to. Use strconv directly where a malformed value must be reported.
*/
package convert

import (
	"strconv"
	"strings"
)

// ToIntD parses s as a base-10 int, returning def when s is blank or malformed.
func ToIntD(s string, def int) int {
	s = strings.TrimSpace(s)
	if s == "" {
		return def
	}
	if v, err := strconv.Atoi(s); err == nil {
		return v
	}
	return def
}

// ToBool accepts the strconv spellings ("1", "t", "true", "TRUE", ...).
// Anything else, including the empty string, is false.
func ToBool(s string) bool {
	v, err := strconv.ParseBool(strings.TrimSpace(s))
	return err == nil && v
}
