package hashlocktest

import (
	"context"
	"fmt"

	"github.com/iov-one/hashlock"
)

// Auth authenticates a fixed set of conditions regardless of the context.
// Signer and Signers are combined, Signer being reported last.
type Auth struct {
	Signer  hashlock.Condition
	Signers []hashlock.Condition
}

// GetConditions returns all configured conditions.
func (a *Auth) GetConditions(context.Context) []hashlock.Condition {
	if a.Signer == nil {
		return a.Signers
	}
	conds := make([]hashlock.Condition, 0, len(a.Signers)+1)
	conds = append(conds, a.Signers...)
	return append(conds, a.Signer)
}

// HasAddress returns true if any configured condition has the address.
func (a *Auth) HasAddress(ctx context.Context, addr hashlock.Address) bool {
	return hasAddress(a.GetConditions(ctx), addr)
}

// CtxAuth authenticates the conditions stored in the context with
// SetConditions. Instances with different keys do not see each other's
// conditions.
type CtxAuth struct {
	Key string
}

type ctxAuthKey string

// SetConditions returns a context authorized by given conditions.
func (a *CtxAuth) SetConditions(ctx context.Context, conds ...hashlock.Condition) context.Context {
	return context.WithValue(ctx, ctxAuthKey(a.Key), conds)
}

// GetConditions returns the conditions stored in the context.
func (a *CtxAuth) GetConditions(ctx context.Context) []hashlock.Condition {
	switch v := ctx.Value(ctxAuthKey(a.Key)).(type) {
	case nil:
		return nil
	case []hashlock.Condition:
		return v
	default:
		panic(fmt.Sprintf("unexpected conditions type %T", v))
	}
}

// HasAddress returns true if any condition stored in the context has the
// address.
func (a *CtxAuth) HasAddress(ctx context.Context, addr hashlock.Address) bool {
	return hasAddress(a.GetConditions(ctx), addr)
}

func hasAddress(conds []hashlock.Condition, addr hashlock.Address) bool {
	for _, c := range conds {
		if addr.Equals(c.Address()) {
			return true
		}
	}
	return false
}
