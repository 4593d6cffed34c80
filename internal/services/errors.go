package services

import "errors"

var (
	ErrEmailExists        = errors.New("user email already exists")
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidActivation  = errors.New("invalid activation token")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidOTP         = errors.New("invalid OTP")
	ErrWrongPassword      = errors.New("incorrect current password")
	ErrNotAdmin           = errors.New("unauthorized person")
	ErrAlreadySubscribed  = errors.New("email is already subscribed")

	// Ошибки почты отдельно от ошибок персистентности: клиент должен
	// уметь отличить "сохранено, но письмо не ушло" от "не сохранено"
	ErrActivationMail = errors.New("error sending activation email")
	ErrOTPMail        = errors.New("error sending OTP")
	ErrContactMail    = errors.New("error sending email")
)
