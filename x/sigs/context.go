package sigs

import (
	"context"

	"github.com/iov-one/hashlock"
	"github.com/iov-one/hashlock/x"
)

type contextKey int // local to the sigs module

const (
	contextKeySigners contextKey = iota
)

// WithSigners returns a context carrying conditions of verified signers.
// Only call it with the result of VerifySignatures.
func WithSigners(ctx context.Context, signers []hashlock.Condition) context.Context {
	return context.WithValue(ctx, contextKeySigners, signers)
}

// Authenticate implements x.Authenticator for signers stored in the context.
type Authenticate struct{}

var _ x.Authenticator = Authenticate{}

// GetConditions returns who signed the current Context.
// May be empty
func (a Authenticate) GetConditions(ctx context.Context) []hashlock.Condition {
	// (val, ok) form to return nil instead of panic if unset
	val, _ := ctx.Value(contextKeySigners).([]hashlock.Condition)
	return val
}

// HasAddress returns true if the given address signed the current Context.
func (a Authenticate) HasAddress(ctx context.Context, addr hashlock.Address) bool {
	for _, s := range a.GetConditions(ctx) {
		if addr.Equals(s.Address()) {
			return true
		}
	}
	return false
}
