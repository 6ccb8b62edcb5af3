package event

import "time"

// OTPIssuedDestination is the topic an issued code is published to for delivery.
const OTPIssuedDestination string = "otp.issued"

// OTPIssuedConsumerNotification is the consumer group of the notification module.
const OTPIssuedConsumerNotification string = "otp.issued.notification"

// OTPIssuedMessage carries a freshly issued code to the delivery side.
type OTPIssuedMessage struct {
	Channel     string    `json:"channel"`
	Destination string    `json:"destination"`
	Name        string    `json:"name,omitempty"`
	Code        string    `json:"code"`
	Purpose     string    `json:"purpose"`
	ExpiresAt   time.Time `json:"expires_at"`
}
