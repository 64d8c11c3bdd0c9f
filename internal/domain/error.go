package domain

import "errors"

var (
	// Common domain errors
	ErrNotFound           = errors.New("entity not found")
	ErrInvalidArgument    = errors.New("invalid argument")
	ErrInvalidBirthday    = errors.New("invalid birthday")
	ErrAlreadyIssued      = errors.New("coupon already issued for this year")
	ErrUnsubscribed       = errors.New("user unsubscribed from birthday emails")
	ErrDuplicateCode      = errors.New("coupon code already exists")
	ErrCodeSpaceExhausted = errors.New("could not generate a unique coupon code")
	ErrAlreadyRedeemed    = errors.New("coupon already redeemed")
	ErrInvalidExecContext = errors.New("invalid query execution context")
	ErrReadDatabaseRow    = errors.New("failed to read database row")
)
