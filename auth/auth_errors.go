package auth

import "errors"

var (
	MissingAccessTokenErr = errors.New("response carried no access token")
	MissingUserIDErr      = errors.New("response carried no user id")
	MissingAccountErr     = errors.New("account is required")
	MissingPasswordErr    = errors.New("password is required")
)
