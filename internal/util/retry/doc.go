// Package retry provides exponential backoff retry logic for transient failures.
//
// It backs idempotent side calls such as DHCP reservation pushes. Cluster
// operations (authentication, clone submission, lifecycle calls) must not
// go through this package: resubmitting a clone can create duplicate
// guests, so retrying those is a deliberate caller-level decision.
package retry
