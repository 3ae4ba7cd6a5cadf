// Package hashlocktest provides deterministic fixtures for testing code
// built on hashlock: principals, authenticators and stores.
package hashlocktest
