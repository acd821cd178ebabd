package model

type User struct {
	UserID       string `json:"user_id"`
	PhoneOrEmail string `json:"phone_number"`
	UserName     string `json:"user_name"`
	IsNewUser    bool   `json:"is_new_user,omitempty"`
}

// OTPChannel selects the delivery route for one-time passcodes.
type OTPChannel = string

const (
	ChannelPhone OTPChannel = "phone"
	ChannelEmail OTPChannel = "email"
)

// OTPTicket is what a successful send-OTP call hands back.
type OTPTicket struct {
	OTPID          string `json:"otp_id"`
	IsExistingUser bool   `json:"is_existing_user"`
}

// Credentials is what a successful verify-OTP call hands back.
type Credentials struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

type UsernameCheck struct {
	Available bool   `json:"available"`
	Message   string `json:"message"`
}
