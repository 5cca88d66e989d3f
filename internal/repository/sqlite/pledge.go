package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/phattraset/crowdfunding-01/pkg/models"
)

// SavePledge inserts the pledge and, for accepted pledges, writes back the
// mutated project and tier counters in the same transaction. The counters
// are taken from the supplied snapshots; they are never recomputed here.
func (r *SQLiteRepo) SavePledge(ctx context.Context, p *models.Pledge, project *models.Project, tier *models.RewardTier) (int64, error) {
	if p == nil {
		return 0, fmt.Errorf("pledge is nil")
	}

	tx, err := r.conn.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer func() { _ = tx.Rollback() }()

	var reason any
	if p.RejectedReason != "" {
		reason = string(p.RejectedReason)
	}
	res, err := tx.ExecContext(ctx,
		`INSERT INTO pledges (user_id, project_id, reward_tier_id, amount, time, accepted, rejected_reason) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		p.UserID, p.ProjectID, p.RewardTierID, p.Amount, p.Time, p.Accepted, reason)
	if err != nil {
		return 0, fmt.Errorf("insert pledge: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}

	if project != nil {
		if _, err := tx.ExecContext(ctx, `UPDATE projects SET current_amount = ? WHERE id = ?`, project.CurrentAmount, project.ID); err != nil {
			return 0, fmt.Errorf("update project amount: %w", err)
		}
	}
	if tier != nil {
		if _, err := tx.ExecContext(ctx, `UPDATE reward_tiers SET qty_remaining = ? WHERE id = ?`, tier.QtyRemaining, tier.ID); err != nil {
			return 0, fmt.Errorf("update tier inventory: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}

	return id, nil
}

func (r *SQLiteRepo) AcceptedTotalsByProject(ctx context.Context, projectID string) ([]models.UserTotal, error) {
	rows, err := r.conn.QueryRows(ctx,
		`SELECT u.id, u.username, SUM(p.amount) AS total
		 FROM pledges p
		 JOIN users u ON u.id = p.user_id
		 WHERE p.project_id = ? AND p.accepted = 1
		 GROUP BY u.id
		 ORDER BY total DESC, u.id ASC`, projectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.UserTotal
	for rows.Next() {
		var t models.UserTotal
		if err := rows.Scan(&t.UserID, &t.Username, &t.Total); err != nil {
			return nil, err
		}

		out = append(out, t)
	}

	return out, rows.Err()
}

func (r *SQLiteRepo) AcceptedTotalForUser(ctx context.Context, projectID string, userID int64) (int64, error) {
	row := r.conn.QueryRow(ctx,
		`SELECT COALESCE(SUM(amount), 0) FROM pledges WHERE project_id = ? AND user_id = ? AND accepted = 1`,
		projectID, userID)
	var total int64
	if err := row.Scan(&total); err != nil {
		return 0, err
	}
	return total, nil
}

func (r *SQLiteRepo) CountPledges(ctx context.Context) (*models.PledgeStats, error) {
	row := r.conn.QueryRow(
		ctx,
		`SELECT
			COALESCE(SUM(CASE WHEN accepted = 1 THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN accepted = 0 THEN 1 ELSE 0 END), 0)
		 FROM pledges`)
	var stats models.PledgeStats
	if err := row.Scan(&stats.Accepted, &stats.Rejected); err != nil {
		if err == sql.ErrNoRows {
			return &models.PledgeStats{}, nil
		}

		return nil, err
	}
	return &stats, nil
}
