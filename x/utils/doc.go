// Package utils contains the decorators every quorum transaction passes
// through: panic recovery, logging, action tagging and savepoints.
package utils
