// Package sms sends short text messages through an HTTP SMS gateway.
//
// Fast2SMS and Twilio are supported. Log is used when no gateway is
// configured and only reports ErrNotConfigured.
package sms
