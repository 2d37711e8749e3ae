package payments

import "errors"

var (
	ErrInvalidRequest = errors.New("invalid_request")
	// ErrScoreNotRecorded means the payment reached completed but the
	// score row could not be written. The charge stands; reconciliation
	// is manual, driven by the data_integrity log line.
	ErrScoreNotRecorded = errors.New("score_not_recorded")
)
