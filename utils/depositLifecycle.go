package utils

import (
	"cryptovest/models"
	"errors"
	"time"

	"gorm.io/gorm"
)

var (
	ErrTransactionNotFound   = errors.New("transaction not found")
	ErrTransactionNotPending = errors.New("only pending transactions can be updated")
)

// ResolveDepositTransaction moves a pending transaction to success or failed.
// The status write is conditional on the row still being pending, so a second
// resolution (or two admins racing) loses the update and gets
// ErrTransactionNotPending with no writes performed. On success for a deposit
// the plan's invested totals grow by the transaction amounts in the same
// logical operation.
func ResolveDepositTransaction(db *gorm.DB, transactionID uint, status, adminNote string) (*models.Transaction, error) {
	var txn models.Transaction
	if err := db.Where("id = ?", transactionID).First(&txn).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTransactionNotFound
		}
		return nil, err
	}

	currentTime := time.Now()

	res := db.Model(&models.Transaction{}).
		Where("id = ? AND status = ?", transactionID, models.TransactionStatusPending).
		Updates(map[string]interface{}{
			"status":     status,
			"admin_note": adminNote,
			"updated_at": currentTime,
		})
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		// Already resolved, terminal states are immutable.
		return nil, ErrTransactionNotPending
	}

	// Fold an approved deposit into the plan totals.
	if status == models.TransactionStatusSuccess && txn.TransactionType == models.TransactionTypeDeposit {
		if err := db.Model(&models.InvestmentPlan{}).
			Where("id = ?", txn.PlanDocID).
			Updates(map[string]interface{}{
				"total_amount_invested":  gorm.Expr("total_amount_invested + ?", txn.Amount),
				"total_amount_in_crypto": gorm.Expr("total_amount_in_crypto + ?", txn.AmountInCrypto),
				"updated_at":             currentTime,
			}).Error; err != nil {
			return nil, err
		}
	}

	txn.Status = status
	txn.AdminNote = adminNote
	return &txn, nil
}
