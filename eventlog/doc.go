/*
Package eventlog records events emitted by state changes.

Log persists events in the same store as the state they describe, so an
event exists if and only if the change that emitted it was committed.
Bus delivers events of committed changes to live subscribers.
*/
package eventlog
