// Package clock provides the time source used by OTP expiry and attempt
// checks.
//
// Code depends on Clocker instead of calling time.Now() directly. Tests use
// Manual to move time past an OTP's expiry without sleeping.
package clock
