package repository

import "errors"

// ErrNotFound indicates an entity was not located.
var ErrNotFound = errors.New("repository: not found")

// ErrDuplicateEmail indicates an account with the same normalized email
// already exists. The unique constraint at the store serializes concurrent
// duplicate creation, so the loser gets this error instead of overwriting.
var ErrDuplicateEmail = errors.New("repository: email already exists")
