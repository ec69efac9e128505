package auth

import (
	"context"

	"github.com/pkg/errors"
)

// Headers set by the chat front ends after they resolve who is talking to them.
const (
	XPatronIDHeader = "X-Patron-Id"
	XStaffIDHeader  = "X-Staff-Id"
)

type contextKey int

const (
	patronKey contextKey = iota + 1
	staffKey
)

var (
	ErrNoPatron = errors.New("patron is not set")
	ErrNoStaff  = errors.New("staff is not set")
)

func SetPatron(ctx context.Context, patronID int64) context.Context {
	return context.WithValue(ctx, patronKey, patronID)
}

func GetPatron(ctx context.Context) (int64, error) {
	id, ok := ctx.Value(patronKey).(int64)
	if !ok || id == 0 {
		return 0, ErrNoPatron
	}
	return id, nil
}

func SetStaff(ctx context.Context, staffID int64) context.Context {
	return context.WithValue(ctx, staffKey, staffID)
}

func GetStaff(ctx context.Context) (int64, error) {
	id, ok := ctx.Value(staffKey).(int64)
	if !ok || id == 0 {
		return 0, ErrNoStaff
	}
	return id, nil
}
