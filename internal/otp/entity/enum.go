package entity

// Channel is the medium a code is delivered through. It is half of the
// record key, so a phone number and an email never collide.
type Channel string

const (
	ChannelPhone Channel = "phone"
	ChannelEmail Channel = "email"
)

func (c Channel) String() string { return string(c) }

// Valid reports whether c is a known channel.
func (c Channel) Valid() bool {
	return c == ChannelPhone || c == ChannelEmail
}

// Purpose is an audit tag recorded with the code. It does not take part in
// lookups.
type Purpose string

const (
	PurposeRegistration       Purpose = "registration"
	PurposeDoctorRegistration Purpose = "doctor-registration"
	PurposeLogin              Purpose = "login"
	PurposeAppointment        Purpose = "appointment"
	PurposeVerification       Purpose = "verification"
	PurposePasswordReset      Purpose = "password-reset"
)

func (p Purpose) String() string { return string(p) }

// OrDefault returns PurposeVerification for an empty purpose.
func (p Purpose) OrDefault() Purpose {
	if p == "" {
		return PurposeVerification
	}
	return p
}

// Reason explains a failed verification. It is logged, never returned to
// the client.
type Reason string

const (
	ReasonNone              Reason = ""
	ReasonExpiredOrNotFound Reason = "expired_or_not_found"
	ReasonTooManyAttempts   Reason = "too_many_attempts"
	ReasonInvalidCode       Reason = "invalid_code"
)

func (r Reason) String() string { return string(r) }
