package model

type RegisterUserDTO struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"-"`
}

type UpdateProfileDTO struct {
	Username string  `json:"username"`
	AboutMe  *string `json:"about_me,omitempty"`
}
