package store

import "time"

type PaymentStatus string

const (
	PaymentCreated   PaymentStatus = "created"
	PaymentApproved  PaymentStatus = "approved"
	PaymentCompleted PaymentStatus = "completed"
	PaymentCancelled PaymentStatus = "cancelled"
	PaymentError     PaymentStatus = "error"
)

// Terminal reports whether a payment can no longer change state.
func (s PaymentStatus) Terminal() bool {
	switch s {
	case PaymentCompleted, PaymentCancelled, PaymentError:
		return true
	}
	return false
}

type User struct {
	UID       string    `json:"uid"`
	Username  string    `json:"username"`
	LastLogin time.Time `json:"lastLogin"`
	CreatedAt time.Time `json:"createdAt"`
}

type Payment struct {
	PaymentID   string         `json:"paymentId"`
	UserID      string         `json:"userId"`
	Amount      float64        `json:"amount"`
	Memo        string         `json:"memo"`
	Metadata    map[string]any `json:"metadata,omitempty"`
	Status      PaymentStatus  `json:"status"`
	CompletedAt *time.Time     `json:"completedAt,omitempty"`
	CreatedAt   time.Time      `json:"createdAt"`
	UpdatedAt   time.Time      `json:"updatedAt"`
}

// PaymentReceipt is the snapshot embedded in a score record at the
// moment the payment completed.
type PaymentReceipt struct {
	PaymentID   string        `json:"paymentId"`
	Amount      float64       `json:"amount"`
	Status      PaymentStatus `json:"status"`
	CompletedAt *time.Time    `json:"completedAt,omitempty"`
}

type Score struct {
	ID        string         `json:"id"`
	UserID    string         `json:"userId"`
	Username  string         `json:"username"`
	Score     int64          `json:"score"`
	Receipt   PaymentReceipt `json:"payment"`
	CreatedAt time.Time      `json:"createdAt"`
}
