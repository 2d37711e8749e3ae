package payment

import (
	"errors"
	"fmt"
)

var (
	ErrNotAuthenticated  = errors.New("not_authenticated")
	ErrSDKUnavailable    = errors.New("sdk_unavailable")
	ErrUserCancelled     = errors.New("user_cancelled")
	ErrPaymentInProgress = errors.New("payment already in progress")
)

// SDKError carries the wallet's failure detail.
type SDKError struct {
	Reason string
}

func (e *SDKError) Error() string {
	return fmt.Sprintf("wallet sdk error: %s", e.Reason)
}
