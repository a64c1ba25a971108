// Package utils provides small, generic helper functions used across
// different layers of the application. These utilities are independent
// of domain or business logic.
package utils

import (
	"errors"
	"strconv"
	"strings"
)

// ErrInvalidID is returned by ParseID for anything but a positive integer.
var ErrInvalidID = errors.New("id must be a positive integer")

// ParseID parses a positive decimal id. Surrounding spaces are ignored.
//
// Example:
//
//	id, err := utils.ParseID("42") // 42, nil
//	_, err = utils.ParseID("0")    // ErrInvalidID
func ParseID(s string) (uint, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, ErrInvalidID
	}
	n, err := strconv.ParseUint(s, 10, 32)
	if err != nil || n == 0 {
		return 0, ErrInvalidID
	}
	return uint(n), nil
}

// FirstID returns the first non-zero id, or 0.
func FirstID(ids ...uint) uint {
	for _, id := range ids {
		if id != 0 {
			return id
		}
	}
	return 0
}
