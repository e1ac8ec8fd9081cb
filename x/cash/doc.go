/*
Package cash is the funds ledger of quorum.

Every address holds a single balance of the native token. Balances never go
below zero. Funds move between addresses with MoveCoins, and Pay additionally
notifies every Receiver added to the Controller. This is how the wallet
engine learns about deposits and how recipients observe the payload of an
executed transaction.
*/
package cash
