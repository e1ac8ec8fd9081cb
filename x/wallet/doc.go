/*
Package wallet implements a shared account controlled by a fixed set of
owners. Any owner may propose a transfer out of the account; the transfer
is executed only once the number of owners that confirmed it reaches the
required threshold.

The state lives in four buckets: the immutable owner registry, the list of
transactions, the confirmation relation between transactions and owners,
and an append-only event log. All of them are manipulated through a Ledger,
which is stateless and operates on the store it is given. Engine wraps a
Ledger with a single backing store, a mutex and savepoint handling for use
outside of an ABCI application.

A transaction moves through two states only. It is proposed by Submit,
collects or loses confirmations, and becomes executed once Execute succeeds.
An executed transaction never changes again.
*/
package wallet
