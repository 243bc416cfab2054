// Package services holds the orchestration layer: the four lead-processing
// modes (combine-and-clean, clean-each, check-against-reference, split) and
// the session-scoped store that keeps produced downloads until the user
// fetches or resets them.
package services
