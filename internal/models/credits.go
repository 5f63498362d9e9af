package models

import (
	"time"

	"github.com/google/uuid"
)

// Credit transaction reasons
const (
	CreditReasonAgentRun = "agent_run"
	CreditReasonTopup    = "topup"
	CreditReasonRefund   = "refund"
	CreditReasonGrant    = "grant"
)

// Credit purchase statuses
const (
	PurchaseStatusAwaiting = "awaiting"
	PurchaseStatusFunded   = "funded"
	PurchaseStatusExpired  = "expired"
)

type UserCredit struct {
	UserID    uuid.UUID `json:"user_id"`
	Balance   int64     `json:"balance"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CreditTransaction records every balance movement. Amount is signed:
// negative for deductions, positive for top-ups and grants.
type CreditTransaction struct {
	ID           uuid.UUID  `json:"id"`
	UserID       uuid.UUID  `json:"user_id"`
	Amount       int64      `json:"amount"`
	Reason       string     `json:"reason"`
	Tool         *string    `json:"tool,omitempty"`
	RunID        *uuid.UUID `json:"run_id,omitempty"`
	BalanceAfter int64      `json:"balance_after"`
	CreatedAt    time.Time  `json:"created_at"`
}

// CreditPurchase is a pending TON top-up. The indexer matches incoming
// transfers by the deposit memo "topup:<id>".
type CreditPurchase struct {
	ID             uuid.UUID  `json:"id"`
	UserID         uuid.UUID  `json:"user_id"`
	Credits        int64      `json:"credits"`
	AmountTON      string     `json:"amount_ton"` // numeric as string
	DepositAddress string     `json:"deposit_address"`
	DepositMemo    string     `json:"deposit_memo"`
	Status         string     `json:"status"`
	FundedAt       *time.Time `json:"funded_at,omitempty"`
	FundingTxHash  *string    `json:"funding_tx_hash,omitempty"`
	PayerAddress   *string    `json:"payer_address,omitempty"`
	ExpiresAt      time.Time  `json:"expires_at"`
	CreatedAt      time.Time  `json:"created_at"`
}

// CreditPackage is a purchasable credit bundle.
type CreditPackage struct {
	Key       string `json:"key"`
	Credits   int64  `json:"credits"`
	AmountTON string `json:"amount_ton"`
}

// CreditPackages are the purchasable bundles, smallest first.
var CreditPackages = []CreditPackage{
	{Key: "starter", Credits: 100, AmountTON: "1"},
	{Key: "growth", Credits: 550, AmountTON: "5"},
	{Key: "scale", Credits: 1200, AmountTON: "10"},
}

func FindCreditPackage(key string) *CreditPackage {
	for i := range CreditPackages {
		if CreditPackages[i].Key == key {
			return &CreditPackages[i]
		}
	}
	return nil
}
