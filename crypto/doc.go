/*
Package crypto provides the cryptographic capabilities consumed by the
ledger: digest functions used for hashlocks and contract identifiers, and
ed25519 keys used to authorize operations.

The digest function is fixed for the lifetime of a ledger. Sender and
receiver agree on it out of band: a hashlock created with Keccak256 can only
be opened by a preimage hashed with Keccak256.
*/
package crypto
