/*
Package orm provides an easy to use db wrapper

Break state space into prefixed sections called Buckets.
* Each bucket contains only one type of object.
* Objects are serialized with protobuf.
* Sequences provide monotonically increasing counters that are stored
next to the data they describe.
*/
package orm
