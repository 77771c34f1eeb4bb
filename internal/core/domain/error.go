package domain

import (
	"errors"
)

var (
	ErrInternal = errors.New("internal error")

	// * Data errors.
	ErrDataNotFound    = errors.New("data not found")
	ErrNoUpdatedData   = errors.New("no data to update")
	ErrConflictingData = errors.New("data conflicts with existing data in unique column")

	// * Communication errors.
	ErrBadRequest     = errors.New("error parsing request")
	ErrPaymentGateway = errors.New("payment gateway request failed")
	ErrMessenger      = errors.New("messenger request failed")
	ErrAgent          = errors.New("agent request failed")

	// * Authority errors.
	ErrTokenCreation  = errors.New("error creating token")
	ErrInvalidToken   = errors.New("access token is invalid")
	ErrEmptyToken     = errors.New("access token is not provided")
	ErrForbidden      = errors.New("user is forbidden to access the resource")
	ErrInvalidWebhook = errors.New("webhook secret token mismatch")

	// * State machine errors.
	ErrInvalidStatus           = errors.New("unknown status")
	ErrInvalidTransition       = errors.New("invalid status transition")
	ErrPaymentAlreadySucceeded = errors.New("payment already succeeded")

	// * Business errors.
	ErrUnknownService          = errors.New("unknown service type")
	ErrOrderCreation           = errors.New("order was not created")
	ErrOrderNotFound           = errors.New("order not found")
	ErrPaymentNotFound         = errors.New("payment not found")
	ErrPaymentMismatch         = errors.New("payment does not belong to order")
	ErrPaymentAlreadyConfirmed = errors.New("payment already confirmed")
	ErrPaymentNotPaid          = errors.New("payment is not paid yet")
	ErrPaymentRolledBack       = errors.New("payment status update failed, order rolled back")
	ErrPaymentStuck            = errors.New("payment status update failed, order rollback failed")
	ErrBadSendCommand          = errors.New("report caption has no order reference")
	ErrBadClientChat           = errors.New("client chat id is not valid")
)
