// Copyright (c) Arista Networks, Inc. 2024
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package py27dict

import "fmt"

// ErrorCode identifies the failure mode of an Error.
type ErrorCode string

const (
	// UnsupportedKeyKind indicates a key the legacy hash cannot hash.
	UnsupportedKeyKind ErrorCode = "UNSUPPORTED_KEY_KIND"
	// KeyNotFound indicates a lookup or deletion of an absent key.
	KeyNotFound ErrorCode = "KEY_NOT_FOUND"
)

// Sentinels for use with errors.Is.
var (
	ErrUnsupportedKeyKind = &Error{Code: UnsupportedKeyKind}
	ErrKeyNotFound        = &Error{Code: KeyNotFound}
)

// Error is returned by Order and Map operations. Key holds the key the
// operation failed on.
type Error struct {
	Code ErrorCode
	Key  any
}

func (e *Error) Error() string {
	if e.Key == nil {
		return string(e.Code)
	}
	if e.Code == UnsupportedKeyKind {
		return fmt.Sprintf("[%s] unhashable key of type %T", e.Code, e.Key)
	}
	return fmt.Sprintf("[%s] %s", e.Code, Repr(e.Key))
}

// Is reports whether target is the sentinel for e's code.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Key == nil && t.Code == e.Code
}

func unsupportedKey(key any) error {
	return &Error{Code: UnsupportedKeyKind, Key: key}
}

func keyNotFound(key any) error {
	return &Error{Code: KeyNotFound, Key: key}
}
