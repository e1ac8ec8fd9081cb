/*
Package orm provides an easy to use db wrapper

Break state space into prefixed sections called Buckets.
* Each bucket contains only one type of object.
* Objects are validated before every write. Objects implementing
  quorum.Persistent encode themselves (protobuf), all others are
  serialized with amino.
* A bucket can own any number of Sequences to generate ascending keys.
* Easy queries for one and iteration over a key prefix.
*/
package orm
