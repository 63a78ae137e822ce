// Package logging owns log setup and shared attribute helpers. Logs carry
// operational events only; message bodies and credentials never appear in
// them.
package logging

import (
	"fmt"
	"log/slog"
	"os"
)

// Common attribute keys for consistent naming across the codebase.
const (
	KeyOperation = "operation"
	KeyAccount   = "account"
	KeyMessageID = "message_id"
	KeyError     = "error"
)

// Setup directs structured log output to the given file and returns the
// logger together with a close function for the underlying file.
func Setup(path string) (*slog.Logger, func() error, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return nil, nil, fmt.Errorf("unable to open log file %s: %w", path, err)
	}
	logger := slog.New(slog.NewTextHandler(f, nil))
	return logger, f.Close, nil
}

// Operation returns a slog attribute for the operation name.
func Operation(op string) slog.Attr {
	return slog.String(KeyOperation, op)
}

// Account returns a slog attribute for the mailbox account.
func Account(account string) slog.Attr {
	return slog.String(KeyAccount, account)
}

// MessageID returns a slog attribute for a provider message id.
func MessageID(id string) slog.Attr {
	return slog.String(KeyMessageID, id)
}

// Err returns a slog attribute for an error. A nil error yields an empty
// group attribute that handlers omit, so Err(maybeNil) is always safe.
func Err(err error) slog.Attr {
	if err == nil {
		return slog.Group("")
	}
	return slog.String(KeyError, err.Error())
}
