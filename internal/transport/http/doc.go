// Package http contains the chi HTTP handlers: multipart upload into the
// four processing modes, per-file and archive downloads from the session
// store, session reset, and health.
package http
