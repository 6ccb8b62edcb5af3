// Package mail defines the contract for sending email and its SMTP
// implementation. A logging fallback is used when no SMTP host is configured.
package mail
