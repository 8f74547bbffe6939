// Package repository defines the player store contract and its MySQL
// implementation. The sentinel errors below let handlers tell a missing row
// apart from a storage failure without inspecting driver errors.
package repository

import "errors"

// ErrPlayerNotFound is returned by Update and Delete when no row has the
// requested id. Handlers translate it into an HTTP 404 response.
var ErrPlayerNotFound = errors.New("player not found")
