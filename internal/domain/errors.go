package domain

import "errors"

var (
	ErrUserNotFound        = errors.New("user not found")
	ErrUserBanned          = errors.New("user is banned")
	ErrSelfReferral        = errors.New("own referral link")
	ErrTaskNotFound        = errors.New("task not found")
	ErrTaskUnavailable     = errors.New("task inactive or exhausted")
	ErrAlreadySubmitted    = errors.New("task already submitted by this user")
	ErrEmptyProof          = errors.New("no proof submitted")
	ErrCompletionNotFound  = errors.New("completion not found")
	ErrAlreadyVerified     = errors.New("completion already verified")
	ErrPaymentNotFound     = errors.New("payment not found")
	ErrPaymentResolved     = errors.New("payment already resolved")
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrBelowMinimum        = errors.New("amount below withdrawal minimum")
	ErrInvalidAmount       = errors.New("invalid amount")
)
