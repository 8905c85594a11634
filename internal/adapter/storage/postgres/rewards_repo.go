package postgres

import (
	"context"
	"errors"
	"fmt"

	"autocare-x402-gateway/internal/core/domain"

	"github.com/jackc/pgx/v5"
)

const loyaltyColumns = `customer_id, points, tier, total_spent, service_count, wash_count, updated_at`

// LoyaltyRepo implements ports.LoyaltyRepository.
type LoyaltyRepo struct {
	pool Pool
}

// NewLoyaltyRepo creates a new LoyaltyRepo.
func NewLoyaltyRepo(pool Pool) *LoyaltyRepo {
	return &LoyaltyRepo{pool: pool}
}

// Accrue adds one settled booking to a customer's wallet. Increment and tier
// recomputation happen inside the upsert; no read-modify-write.
func (r *LoyaltyRepo) Accrue(ctx context.Context, tx pgx.Tx, customerID string, kind domain.Kind, amount, points int64) (*domain.LoyaltyWallet, error) {
	var serviceInc, washInc int64
	if kind == domain.KindService {
		serviceInc = 1
	} else {
		washInc = 1
	}

	query := `INSERT INTO customer_loyalty (` + loyaltyColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, NOW())
		ON CONFLICT (customer_id) DO UPDATE SET
			points        = customer_loyalty.points + EXCLUDED.points,
			total_spent   = customer_loyalty.total_spent + EXCLUDED.total_spent,
			service_count = customer_loyalty.service_count + EXCLUDED.service_count,
			wash_count    = customer_loyalty.wash_count + EXCLUDED.wash_count,
			tier = CASE
				WHEN customer_loyalty.points + EXCLUDED.points >= $7 THEN 'platinum'
				WHEN customer_loyalty.points + EXCLUDED.points >= $8 THEN 'gold'
				WHEN customer_loyalty.points + EXCLUDED.points >= $9 THEN 'silver'
				ELSE 'bronze'
			END,
			updated_at = NOW()
		RETURNING ` + loyaltyColumns

	w := &domain.LoyaltyWallet{}
	err := tx.QueryRow(ctx, query,
		customerID, points, string(domain.TierFor(points)), amount, serviceInc, washInc,
		domain.PlatinumThreshold, domain.GoldThreshold, domain.SilverThreshold,
	).Scan(&w.CustomerID, &w.Points, &w.Tier, &w.TotalSpent, &w.ServiceCount, &w.WashCount, &w.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("accrue loyalty: %w", err)
	}
	return w, nil
}

// Get fetches a customer's wallet.
func (r *LoyaltyRepo) Get(ctx context.Context, customerID string) (*domain.LoyaltyWallet, error) {
	w := &domain.LoyaltyWallet{}
	err := r.pool.QueryRow(ctx,
		`SELECT `+loyaltyColumns+` FROM customer_loyalty WHERE customer_id = $1`, customerID,
	).Scan(&w.CustomerID, &w.Points, &w.Tier, &w.TotalSpent, &w.ServiceCount, &w.WashCount, &w.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get loyalty: %w", err)
	}
	return w, nil
}

const rewardColumns = `operator_id, earned, pending, paid, job_count, updated_at`

// RewardRepo implements ports.RewardRepository.
type RewardRepo struct {
	pool Pool
}

// NewRewardRepo creates a new RewardRepo.
func NewRewardRepo(pool Pool) *RewardRepo {
	return &RewardRepo{pool: pool}
}

// Accrue adds commission to both earned and pending, keeping earned = pending + paid.
func (r *RewardRepo) Accrue(ctx context.Context, tx pgx.Tx, operatorID string, commission int64) (*domain.OperatorReward, error) {
	query := `INSERT INTO operator_rewards (` + rewardColumns + `)
		VALUES ($1, $2, $2, 0, 1, NOW())
		ON CONFLICT (operator_id) DO UPDATE SET
			earned     = operator_rewards.earned + EXCLUDED.earned,
			pending    = operator_rewards.pending + EXCLUDED.pending,
			job_count  = operator_rewards.job_count + 1,
			updated_at = NOW()
		RETURNING ` + rewardColumns

	return scanReward(tx.QueryRow(ctx, query, operatorID, commission))
}

// Get fetches an operator's reward aggregate.
func (r *RewardRepo) Get(ctx context.Context, operatorID string) (*domain.OperatorReward, error) {
	return scanReward(r.pool.QueryRow(ctx,
		`SELECT `+rewardColumns+` FROM operator_rewards WHERE operator_id = $1`, operatorID))
}

// Payout moves amount from pending to paid in one guarded update.
func (r *RewardRepo) Payout(ctx context.Context, operatorID string, amount int64) (*domain.OperatorReward, error) {
	query := `UPDATE operator_rewards
		SET pending = pending - $2, paid = paid + $2, updated_at = NOW()
		WHERE operator_id = $1 AND pending >= $2
		RETURNING ` + rewardColumns

	return scanReward(r.pool.QueryRow(ctx, query, operatorID, amount))
}

func scanReward(row pgx.Row) (*domain.OperatorReward, error) {
	rw := &domain.OperatorReward{}
	err := row.Scan(&rw.OperatorID, &rw.Earned, &rw.Pending, &rw.Paid, &rw.JobCount, &rw.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan operator reward: %w", err)
	}
	return rw, nil
}
