/*
Package hashlock defines the common types and interfaces that tie together
the hashed timelock contract ledger and the environment it runs in.

The ledger itself lives in x/htlc. This package holds what every extension
needs to talk to the environment: principal identities (Address and
Condition), the POSIX time used for timelocks (UnixTime), the clock
capability, the key value store interfaces and the context helpers that
carry block time, chain id and a logger between layers.

There should exist two functions for every XYZ of type T that we want to
support in Context:

	WithXYZ(Context, T) Context
	GetXYZ(Context) (val T, ok bool)
*/
package hashlock
