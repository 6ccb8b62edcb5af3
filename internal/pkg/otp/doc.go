// Package otp generates the numeric one-time codes sent to patients.
package otp
