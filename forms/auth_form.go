package forms

import "strings"

type RegisterInput struct {
	Username        string `json:"username" form:"username" validate:"required,max=150,username"`
	Password        string `json:"password" form:"password1" validate:"required,min=8,max=128"`
	PasswordConfirm string `json:"password_confirm" form:"password2" validate:"omitempty,eqfield=Password"`
}

type LoginInput struct {
	Username string `json:"username" form:"username" validate:"required"`
	Password string `json:"password" form:"password" validate:"required"`
}

// ValidateRegister checks a sign-up submission. The API may omit the confirmation.
func ValidateRegister(input RegisterInput) (RegisterInput, error) {
	input.Username = strings.TrimSpace(input.Username)

	verr := &ValidationError{}
	if err := validate.Struct(input); err != nil {
		verr.addStruct(err)
	}
	return input, verr.orNil()
}

func ValidateLogin(input LoginInput) (LoginInput, error) {
	input.Username = strings.TrimSpace(input.Username)

	verr := &ValidationError{}
	if err := validate.Struct(input); err != nil {
		verr.addStruct(err)
	}
	return input, verr.orNil()
}
