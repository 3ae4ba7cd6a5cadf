/*
Package cash keeps account balances of any number of assets and moves value
between accounts.

A balance is stored per (address, asset) pair. Accounts are created on
their first deposit and are never removed.
*/
package cash
