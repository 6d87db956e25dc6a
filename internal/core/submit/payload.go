package submit

import (
	"github.com/go-playground/validator/v10"

	"github.com/hay-kot/signup/internal/core/rules"
)

var payloadValidator = validator.New()

// Payload is the JSON body posted to the submission endpoint.
type Payload struct {
	Name              string `json:"name" validate:"required"`
	Surname           string `json:"surname" validate:"required"`
	Email             string `json:"email" validate:"required"`
	Birthday          string `json:"birthday" validate:"required"`
	Password          string `json:"password" validate:"required"`
	ConfirmedPassword string `json:"confirmedPassword" validate:"required"`
}

// PayloadFrom copies the six form values into a Payload.
func PayloadFrom(values rules.Values) Payload {
	return Payload{
		Name:              values[rules.FieldName],
		Surname:           values[rules.FieldSurname],
		Email:             values[rules.FieldEmail],
		Birthday:          values[rules.FieldBirthday],
		Password:          values[rules.FieldPassword],
		ConfirmedPassword: values[rules.FieldConfirmPassword],
	}
}

// Redacted returns a copy safe for logging.
func (p Payload) Redacted() Payload {
	if p.Password != "" {
		p.Password = "[redacted]"
	}
	if p.ConfirmedPassword != "" {
		p.ConfirmedPassword = "[redacted]"
	}
	return p
}

func (p Payload) validate() error {
	return payloadValidator.Struct(p)
}
