// Package syntax provides types and checks for Arweave identifiers and other primitive input shapes.
//
// These are string alias types and pure assert functions for verifying the syntax of wallet addresses and transaction ids, string lengths, and integer domains. They carry no policy and perform no resolution.
package syntax
