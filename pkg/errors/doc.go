// Package errors provides coded errors for m8db.
//
// Every error surfaced by the store carries an ErrorCode so callers can tell an
// expected outcome (KEY_CONFLICT, KEY_NOT_FOUND) apart from a fault (IO_FAILURE)
// without matching on message text.
package errors
