// Package validator provides a small validation abstraction for request and
// domain structs.
//
// Business code depends on the Validator interface. The go-playground v10
// implementation registers English messages and the clinic specific rules
// "phone_digits" and "email_simple".
package validator
