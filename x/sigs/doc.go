/*
Package sigs authenticates requests with ed25519 signatures.

Every signature carries the sequence (nonce) of the signing account. The
sequence is incremented after each successfully verified signature which
prevents replaying signed requests.
*/
package sigs
