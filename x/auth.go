package x

import (
	"context"

	"github.com/iov-one/hashlock"
)

// Authenticator tells which principals authorized the operation carried by
// a context. The ledger is given one instead of reading signatures itself
// so that any authorization scheme can be plugged in.
type Authenticator interface {
	// GetConditions returns all conditions fulfilled by the context.
	GetConditions(context.Context) []hashlock.Condition
	// HasAddress returns true if the principal identified by the address
	// authorized the context.
	HasAddress(context.Context, hashlock.Address) bool
}

// MultiAuth is an Authenticator satisfied by any of its members.
type MultiAuth []Authenticator

var _ Authenticator = MultiAuth(nil)

// ChainAuth combines authenticators. Conditions are reported in the order
// of the authenticators.
func ChainAuth(auths ...Authenticator) MultiAuth {
	return MultiAuth(auths)
}

// GetConditions returns the conditions of all members.
func (m MultiAuth) GetConditions(ctx context.Context) []hashlock.Condition {
	var all []hashlock.Condition
	for _, a := range m {
		all = append(all, a.GetConditions(ctx)...)
	}
	return all
}

// HasAddress returns true if any member authenticates the address.
func (m MultiAuth) HasAddress(ctx context.Context, addr hashlock.Address) bool {
	for _, a := range m {
		if a.HasAddress(ctx, addr) {
			return true
		}
	}
	return false
}

// GetAddresses returns the addresses of all conditions of the context.
func GetAddresses(ctx context.Context, auth Authenticator) []hashlock.Address {
	conds := auth.GetConditions(ctx)
	addrs := make([]hashlock.Address, 0, len(conds))
	for _, c := range conds {
		addrs = append(addrs, c.Address())
	}
	return addrs
}

// MainSigner returns the first condition of the context or nil.
func MainSigner(ctx context.Context, auth Authenticator) hashlock.Condition {
	if conds := auth.GetConditions(ctx); len(conds) != 0 {
		return conds[0]
	}
	return nil
}
