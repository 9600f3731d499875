package core

import "errors"

var (
	ErrInvalidAddress              = errors.New("invalid address")
	ErrInvalidPayload              = errors.New("invalid request payload")
	ErrNonceNotFoundInMessage      = errors.New("nonce not found in message")
	ErrNonceInvalidOrExpired       = errors.New("nonce is invalid or expired")
	ErrInvalidSignatureEncoding    = errors.New("invalid signature encoding")
	ErrSignatureVerificationFailed = errors.New("signature verification failed")
	ErrTokenRejected               = errors.New("token rejected")
)
