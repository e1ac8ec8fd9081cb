/*
Package x contains the extensions of the quorum application.

Extensions implement common functionality (Handler, Decorator, etc.) and are
combined together in cmd/quorumd to construct the application. Sub-packages
hold the funds ledger (cash), transaction signatures (sigs), the multi-owner
wallet engine (wallet) and the off-chain approval codec (offchain).
*/
package x
