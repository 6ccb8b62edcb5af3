// Package hash provides keyed digests for short-lived secrets.
//
// One-time codes are stored only as HMAC-SHA256 digests keyed by a server
// secret, so a leaked store does not reveal pending codes.
package hash
