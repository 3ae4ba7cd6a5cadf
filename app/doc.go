/*
Package app wires the extensions into a single application.

The application keeps a committed store and a deliver cache on top of it.
Requests are signed transactions delivered one by one; each one either
applies completely to the deliver cache or not at all. Commit persists the
deliver cache as a new version and notifies subscribers about the events
of the committed block.
*/
package app
