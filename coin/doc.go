// Package coin defines the amount and asset identifier types used to move
// value between accounts.
package coin
