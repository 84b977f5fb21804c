package domain

import "errors"

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrUserAlreadyExists  = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrPhotoNotFound      = errors.New("photo not found")
	ErrPhotoRejected      = errors.New("photo rejected")
	ErrAssetNotFound      = errors.New("asset not found")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrForbidden          = errors.New("forbidden")
	ErrTokenInvalid       = errors.New("token invalid")
)
