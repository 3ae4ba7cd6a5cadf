/*
Package htlc implements a ledger of hashed timelock contracts.

A contract locks an amount of an asset sent by a sender. The receiver can
withdraw it by revealing the preimage of the contract hashlock. Once the
timelock is reached and the contract was not withdrawn, the sender can take
the funds back with a refund. Each contract ends in exactly one of the two
terminal states and records are never removed.

Every operation is atomic: it either applies all of its effects (record,
counter, balances and events) or none of them.
*/
package htlc
