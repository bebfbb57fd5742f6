package utils

import (
	"cryptovest/models"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// AccrualFailure records one plan or user the tick could not process.
type AccrualFailure struct {
	PlanDocID uint   `json:"planDocId,omitempty"`
	UserID    uint   `json:"userId,omitempty"`
	Reason    string `json:"reason"`
}

// AccrualSummary is the batch result of one accrual tick.
type AccrualSummary struct {
	BatchID        string           `json:"batchId"`
	PlansProcessed int              `json:"plansProcessed"`
	UsersUpdated   int              `json:"usersUpdated"`
	Failures       []AccrualFailure `json:"failures"`
}

// AccrualKeyFor builds the idempotency token tying a plan update to its
// ledger entry for one tick time.
func AccrualKeyFor(planDocID uint, tickTime time.Time) string {
	return fmt.Sprintf("%d:%d", planDocID, tickTime.Unix())
}

// RunAccrualTick walks all active plans and posts profit for the ones that
// are due. Per-plan work is a three step saga with no cross-row transaction:
//
//  1. conditional plan update keyed on the plan's previous tick timestamp,
//     recording the accrual key and profit amount on the row;
//  2. append the profit transaction carrying that key;
//  3. credit the user aggregates once per user after the batch.
//
// A plan that loses the conditional update was already ticked (or raced an
// admin write) and is skipped. A plan whose transaction append fails is left
// for ReconcileAccruals, which can rebuild the entry from the row bookkeeping.
// Per-plan errors never abort the batch; only a store failure loading the
// plan set does.
func RunAccrualTick(db *gorm.DB, currentTime time.Time, thresholdMinutes int) (*AccrualSummary, error) {
	summary := &AccrualSummary{
		BatchID:  uuid.NewString(),
		Failures: []AccrualFailure{},
	}

	var activePlans []models.InvestmentPlan
	if err := db.Where("is_active = ?", true).Find(&activePlans).Error; err != nil {
		return nil, fmt.Errorf("failed to load active plans: %w", err)
	}

	// Pending users per tick: userID -> accumulated profit across that
	// user's due plans.
	userProfits := make(map[uint]float64)

	for _, plan := range activePlans {
		// Invested totals are checked in application code, not in the query.
		if plan.TotalAmountInvested <= 0 {
			continue
		}

		minutesSinceLastTick := int(currentTime.Sub(plan.LastProfitCalculated).Minutes())
		if minutesSinceLastTick < thresholdMinutes {
			continue
		}

		// Simple interest on the current principal. Deposits approved
		// mid-cycle start earning at the next tick only.
		profit := plan.TotalAmountInvested * plan.DailyPercentage / 100
		accrualKey := AccrualKeyFor(plan.ID, currentTime)

		res := db.Model(&models.InvestmentPlan{}).
			Where("id = ? AND last_profit_calculated = ?", plan.ID, plan.LastProfitCalculated).
			Updates(map[string]interface{}{
				"total_amount_gained":    gorm.Expr("total_amount_gained + ?", profit),
				"last_profit_calculated": currentTime,
				"last_accrual_key":       accrualKey,
				"last_profit_amount":     profit,
				"updated_at":             currentTime,
			})
		if res.Error != nil {
			log.Printf("[ACCRUAL] Batch %s: failed to update plan %d: %v", summary.BatchID, plan.ID, res.Error)
			summary.Failures = append(summary.Failures, AccrualFailure{PlanDocID: plan.ID, Reason: res.Error.Error()})
			continue
		}
		if res.RowsAffected == 0 {
			// Another writer advanced the plan after it was read, so this
			// tick already happened for it.
			continue
		}

		if err := appendProfitTransaction(db, &plan, profit, accrualKey, currentTime); err != nil {
			// The plan row already advanced; the missing ledger entry is
			// repaired by the reconciliation pass.
			log.Printf("[ACCRUAL] Batch %s: failed to append profit transaction for plan %d: %v", summary.BatchID, plan.ID, err)
			summary.Failures = append(summary.Failures, AccrualFailure{PlanDocID: plan.ID, Reason: err.Error()})
			continue
		}

		userProfits[plan.UserID] += profit
		summary.PlansProcessed++
	}

	// Fold the accumulated deltas into the user aggregates, one write per
	// affected user.
	for userID, profitDelta := range userProfits {
		if err := creditUserProfit(db, userID, profitDelta, currentTime); err != nil {
			log.Printf("[ACCRUAL] Batch %s: failed to credit user %d: %v", summary.BatchID, userID, err)
			summary.Failures = append(summary.Failures, AccrualFailure{UserID: userID, Reason: err.Error()})
			continue
		}
		summary.UsersUpdated++
	}

	return summary, nil
}

// appendProfitTransaction writes the auto-approved ledger entry for one tick.
func appendProfitTransaction(db *gorm.DB, plan *models.InvestmentPlan, profit float64, accrualKey string, currentTime time.Time) error {
	tags, _ := json.Marshal([]string{"daily profit", "auto-approved"})

	txn := models.Transaction{
		UserID:           plan.UserID,
		InvestmentPlanID: plan.PlanID,
		PlanDocID:        plan.ID,
		TransactionType:  models.TransactionTypeProfit,
		Amount:           profit,
		Currency:         plan.Currency,
		Title:            "Daily Profit - " + plan.PlanName,
		Description:      "Automatic daily profit from investment plan: " + plan.PlanName,
		Status:           models.TransactionStatusSuccess,
		Tags:             datatypes.JSON(tags),
		AccrualKey:       &accrualKey,
	}
	txn.CreatedAt = currentTime

	return db.Create(&txn).Error
}

// creditUserProfit bumps the user aggregates with expression updates so a
// racing write cannot be lost.
func creditUserProfit(db *gorm.DB, userID uint, amount float64, currentTime time.Time) error {
	res := db.Model(&models.User{}).
		Where("id = ? AND is_deleted = ?", userID, false).
		Updates(map[string]interface{}{
			"current_balance": gorm.Expr("current_balance + ?", amount),
			"total_profit":    gorm.Expr("total_profit + ?", amount),
			"updated_at":      currentTime,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("user %d not found", userID)
	}
	return nil
}

// ReconcileSummary is the result of one reconciliation pass.
type ReconcileSummary struct {
	PlansChecked  int `json:"plansChecked"`
	Repaired      int `json:"repaired"`
	UsersRepaired int `json:"usersRepaired"`
}

// ReconcileAccruals repairs plans whose last tick advanced the row but never
// produced a ledger entry (a crash between the saga steps). The missing
// profit transaction is rebuilt from the bookkeeping stored on the plan and
// the user is credited the amount that never landed. A second pass compares
// each user's totalProfit against the profit ledger sum and credits any
// shortfall, covering a crash between the ledger append and the user credit.
func ReconcileAccruals(db *gorm.DB) (*ReconcileSummary, error) {
	summary := &ReconcileSummary{}

	var plans []models.InvestmentPlan
	if err := db.Where("is_active = ? AND last_accrual_key <> ''", true).Find(&plans).Error; err != nil {
		return nil, fmt.Errorf("failed to load plans for reconciliation: %w", err)
	}

	for _, plan := range plans {
		summary.PlansChecked++

		var count int64
		if err := db.Model(&models.Transaction{}).
			Where("accrual_key = ?", plan.LastAccrualKey).
			Count(&count).Error; err != nil {
			log.Printf("[ACCRUAL] Reconcile: failed to check ledger for plan %d: %v", plan.ID, err)
			continue
		}
		if count > 0 {
			continue
		}

		log.Printf("[ACCRUAL] Reconcile: plan %d advanced without ledger entry %s, repairing", plan.ID, plan.LastAccrualKey)

		if err := appendProfitTransaction(db, &plan, plan.LastProfitAmount, plan.LastAccrualKey, plan.LastProfitCalculated); err != nil {
			log.Printf("[ACCRUAL] Reconcile: failed to repair ledger for plan %d: %v", plan.ID, err)
			continue
		}
		if err := creditUserProfit(db, plan.UserID, plan.LastProfitAmount, time.Now()); err != nil {
			log.Printf("[ACCRUAL] Reconcile: failed to credit user %d for plan %d: %v", plan.UserID, plan.ID, err)
			continue
		}
		summary.Repaired++
	}

	// Profit postings are the only credits a user ever receives, so anything
	// the ledger says was earned must be reflected in the aggregates. This
	// runs after the plan repairs above, which already restored their users.
	type ledgerTotal struct {
		UserID uint
		Total  float64
	}
	var totals []ledgerTotal
	if err := db.Model(&models.Transaction{}).
		Select("user_id, COALESCE(SUM(amount), 0) as total").
		Where("transaction_type = ? AND status = ?", models.TransactionTypeProfit, models.TransactionStatusSuccess).
		Group("user_id").
		Scan(&totals).Error; err != nil {
		return nil, fmt.Errorf("failed to sum profit ledger: %w", err)
	}

	for _, lt := range totals {
		var user models.User
		if err := db.Where("id = ? AND is_deleted = ?", lt.UserID, false).First(&user).Error; err != nil {
			continue
		}

		shortfall := lt.Total - user.TotalProfit
		if shortfall <= 1e-9 {
			continue
		}

		log.Printf("[ACCRUAL] Reconcile: user %d is %.2f short of the profit ledger, crediting", lt.UserID, shortfall)

		if err := creditUserProfit(db, lt.UserID, shortfall, time.Now()); err != nil {
			log.Printf("[ACCRUAL] Reconcile: failed to credit user %d: %v", lt.UserID, err)
			continue
		}
		summary.UsersRepaired++
	}

	return summary, nil
}
