package models

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// TransactionType defines the type of ledger transaction
const (
	TransactionTypeDeposit = "deposit"
	TransactionTypeProfit  = "profit"
)

// TransactionStatus defines the status of a transaction. Deposits start
// pending and are resolved exactly once by an admin; profit entries are
// created success (auto-approved, no human review).
const (
	TransactionStatusPending = "pending"
	TransactionStatusSuccess = "success"
	TransactionStatusFailed  = "failed"
)

// Transaction is the append-only audit record backing aggregate balances.
// The single pending→terminal status transition is the only mutation a row
// ever sees.
type Transaction struct {
	gorm.Model
	UserID           uint    `gorm:"not null;index" json:"userId"`
	InvestmentPlanID string  `gorm:"not null;index" json:"investmentPlanId"`
	PlanDocID        uint    `gorm:"not null;index" json:"planDocId"`
	TransactionType  string  `gorm:"type:varchar(20);not null" json:"transactionType"`
	Amount           float64 `gorm:"not null" json:"amount"`
	Currency         string  `gorm:"type:varchar(10)" json:"currency"`
	AmountInCrypto   float64 `gorm:"default:0" json:"amountInCrypto"`
	CryptoCoinName   string  `gorm:"type:varchar(20)" json:"cryptoCoinName"`

	Title       string         `json:"title"`
	Description string         `gorm:"type:text" json:"description"`
	Status      string         `gorm:"type:varchar(20);not null;index" json:"status"`
	Tags        datatypes.JSON `json:"tags"`
	AdminNote   string         `gorm:"type:text" json:"adminNote"`

	// Set on profit entries only. The unique index makes a retried accrual
	// tick unable to post the same plan twice for one tick time.
	AccrualKey *string `gorm:"type:varchar(64);uniqueIndex" json:"-"`
}

func (Transaction) TableName() string {
	return "transactions"
}
