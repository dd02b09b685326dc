// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package uuid issues and checks project identifiers.

Identifiers are UUIDv7 strings: time-ordered, so new projects land at the end
of the primary key index in PostgreSQL.
*/
package uuid

import "github.com/google/uuid"

// New returns a fresh UUIDv7 string. It panics only when the OS entropy
// source fails.
func New() string {
	id, err := uuid.NewV7()
	if err != nil {
		panic("uuid: entropy source unavailable: " + err.Error())
	}
	return id.String()
}

// Valid reports whether s parses as a UUID of any version.
func Valid(s string) bool {
	return uuid.Validate(s) == nil
}
