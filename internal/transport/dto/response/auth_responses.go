package response

type UserSummary struct {
	Id         string `json:"id"`
	FullName   string `json:"fullName"`
	Email      string `json:"email"`
	RollNumber string `json:"rollNumber"`
	Role       string `json:"role"`
}

type AuthResponse struct {
	Token string      `json:"token"`
	User  UserSummary `json:"user"`
}

type ForgotPasswordResponse struct {
	ResetToken string `json:"resetToken"`
}
