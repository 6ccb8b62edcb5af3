package entity

import "time"

// OTPDelivery is one issued code waiting to be sent.
type OTPDelivery struct {
	Channel     Channel
	Destination string
	Name        string
	Code        string
	Purpose     string
	ExpiresAt   time.Time
}

// DeliveryResult reports how a send went. NotConfigured means no provider is
// set up for the channel; the code was not delivered but nothing failed.
type DeliveryResult struct {
	Success       bool
	Error         string
	NotConfigured bool
}
