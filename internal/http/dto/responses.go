package dto

import "time"

type AuthResponse struct {
	Token string `json:"token"`
	User  any    `json:"user"`
}

// ErrorResponse carries a machine-readable error code plus a
// human-readable message.
type ErrorResponse struct {
	Error     string `json:"error"`
	Message   string `json:"message,omitempty"`
	RequestID string `json:"request_id,omitempty"`
}

type SuccessResponse struct {
	OK   bool `json:"ok"`
	Data any  `json:"data,omitempty"`
}

type TopupInfoResponse struct {
	PurchaseID    string    `json:"purchase_id"`
	WalletAddress string    `json:"wallet_address"`
	Memo          string    `json:"memo"`
	AmountTON     string    `json:"amount_ton"`
	Credits       int64     `json:"credits"`
	Status        string    `json:"status"`
	ExpiresAt     time.Time `json:"expires_at"`
}
