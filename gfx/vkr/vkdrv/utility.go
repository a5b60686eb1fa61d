// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package vkdrv

import "strings"

// safeString terminates s with a NUL the way the C API expects it.
func safeString(s string) string {
	return strings.TrimRight(s, "\x00") + "\x00"
}

func safeStrings(sgs []string) []string {
	safe := make([]string, 0, len(sgs))
	for _, s := range sgs {
		safe = append(safe, safeString(s))
	}
	return safe
}
