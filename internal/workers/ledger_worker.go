package workers

import (
	"context"
	"log"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// LedgerWorker - фоновая гигиена: сверка балансов с леджером и чистка
// протухших refresh-токенов.
type LedgerWorker struct {
	db *gorm.DB
}

func NewLedgerWorker(db *gorm.DB) *LedgerWorker {
	return &LedgerWorker{db: db}
}

func (w *LedgerWorker) Start(ctx context.Context) {
	go w.reconcileBalances(ctx)
	go w.cleanExpiredRefreshTokens(ctx)
}

// reconcileBalances раз в 6 часов ищет пользователей, у которых
// денормализованный баланс разошелся с леджером (сумма начислений минус
// сумма всех заявок на выплату). Расхождение - баг в коде начислений,
// поэтому только логируем, ничего не чиним автоматически.
func (w *LedgerWorker) reconcileBalances(ctx context.Context) {
	ticker := time.NewTicker(6 * time.Hour)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("Ledger worker stopped")
			return
		case <-ticker.C:
			var drifted []struct {
				ID       string
				Balance  decimal.Decimal
				Expected decimal.Decimal
			}
			err := w.db.Raw(`
				SELECT u.id, u.balance,
				       COALESCE(e.total, 0) - COALESCE(p.total, 0) AS expected
				FROM users u
				LEFT JOIN (SELECT user_id, SUM(amount) AS total FROM earnings GROUP BY user_id) e ON e.user_id = u.id
				LEFT JOIN (SELECT user_id, SUM(amount) AS total FROM payout_requests GROUP BY user_id) p ON p.user_id = u.id
				WHERE u.balance <> COALESCE(e.total, 0) - COALESCE(p.total, 0)
			`).Scan(&drifted).Error
			if err != nil {
				log.Printf("Error reconciling balances: %v", err)
				continue
			}
			for _, u := range drifted {
				log.Printf("BALANCE DRIFT user=%s stored=%s expected=%s", u.ID, u.Balance, u.Expected)
			}
			if len(drifted) == 0 {
				log.Println("Balance reconciliation: all users consistent")
			}
		}
	}
}

func (w *LedgerWorker) cleanExpiredRefreshTokens(ctx context.Context) {
	ticker := time.NewTicker(1 * time.Hour)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			result := w.db.Exec(`DELETE FROM refresh_tokens WHERE expires_at < NOW()`)
			if result.Error != nil {
				log.Printf("Error cleaning expired refresh tokens: %v", result.Error)
			} else if result.RowsAffected > 0 {
				log.Printf("Removed %d expired refresh tokens", result.RowsAffected)
			}
		}
	}
}
