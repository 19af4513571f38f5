package jobs

import (
	"context"
	"fmt"
	"log"
	"time"

	"bounty-market/internal/services"
)

// BudgetReconciler periodically checks every workspace ledger and purges
// spent login challenges
type BudgetReconciler struct {
	workspaceService *services.WorkspaceService
	authService      *services.AuthService
	interval         time.Duration
	stopChan         chan struct{}
}

// NewBudgetReconciler creates a new reconciliation job
func NewBudgetReconciler(workspaceService *services.WorkspaceService, authService *services.AuthService, interval time.Duration) *BudgetReconciler {
	return &BudgetReconciler{
		workspaceService: workspaceService,
		authService:      authService,
		interval:         interval,
		stopChan:         make(chan struct{}),
	}
}

// Run loops until ctx is cancelled or Stop is called
func (br *BudgetReconciler) Run(ctx context.Context) error {
	if br.interval <= 0 {
		return fmt.Errorf("reconcile interval must be positive, got %v", br.interval)
	}
	log.Printf("[BudgetReconciler] Starting budget reconciliation job (interval: %v)", br.interval)

	ticker := time.NewTicker(br.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			br.RunOnce(ctx)
		case <-ctx.Done():
			log.Println("[BudgetReconciler] Stopping budget reconciliation job")
			return nil
		case <-br.stopChan:
			log.Println("[BudgetReconciler] Stopping budget reconciliation job")
			return nil
		}
	}
}

// Stop stops the reconciliation loop
func (br *BudgetReconciler) Stop() {
	close(br.stopChan)
}

// RunOnce performs a single pass and returns the discrepancies it logged
func (br *BudgetReconciler) RunOnce(ctx context.Context) []services.BudgetDiscrepancy {
	discrepancies, err := br.workspaceService.Reconcile(ctx)
	if err != nil {
		log.Printf("[BudgetReconciler] Error reconciling budgets: %v", err)
	}
	for _, d := range discrepancies {
		log.Printf("[BudgetReconciler] Workspace %s: %s (total=%d available=%d reserved=%d paid=%d drift=%d)",
			d.WorkspaceID, d.Reason, d.Total, d.Available, d.Reserved, d.Paid, d.Drift)
	}

	if br.authService != nil {
		purged, err := br.authService.PurgeChallenges(ctx)
		if err != nil {
			log.Printf("[BudgetReconciler] Error purging challenges: %v", err)
		} else if purged > 0 {
			log.Printf("[BudgetReconciler] Purged %d spent login challenges", purged)
		}
	}

	return discrepancies
}
