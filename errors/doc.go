/*
Package errors implements the error model used across hashlock.

Every error returned by the ledger wraps exactly one registered root error.
Root errors carry a unique ABCI code so that a client can branch on the
cause (retry, wait for expiry, give up) without parsing messages.

Common root errors are declared in this package. Extensions that need a
domain specific kind register their own with Register, using a code range
reserved for that extension (x/htlc uses 100-119).

Use ErrXyz.New("...") or Wrap(err, "...") at the point of creation so that
a stacktrace is attached. Only the innermost wrap records the stack.

	%s  is just the error message
	%+v is the message followed by the stacktrace of the innermost wrap
*/
package errors
