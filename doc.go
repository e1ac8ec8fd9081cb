/*

Package quorum defines interfaces used throughout the app, such as: storage,
transactions, handlers and addresses. It also contains helpers to work with
context, results and abci.

Multi-owner authorization itself lives in x/wallet, the off-chain approval
codec in x/offchain. Look into this package to get a brief overview of the
building blocks every extension is written against.

*/

package quorum
