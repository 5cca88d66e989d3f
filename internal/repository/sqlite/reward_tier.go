package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/phattraset/crowdfunding-01/pkg/models"
)

func (r *SQLiteRepo) CreateRewardTier(ctx context.Context, t *models.RewardTier) (int64, error) {
	if t == nil {
		return 0, fmt.Errorf("reward tier is nil")
	}

	res, err := r.conn.Exec(ctx, `INSERT INTO reward_tiers (project_id, description, min_amount, qty_remaining) VALUES (?, ?, ?, ?)`,
		t.ProjectID, t.Description, t.MinAmount, t.QtyRemaining)
	if err != nil {
		return 0, err
	}

	return res.LastInsertId()
}

func (r *SQLiteRepo) GetRewardTierByID(ctx context.Context, id int64) (*models.RewardTier, error) {
	row := r.conn.QueryRow(ctx, `SELECT id, project_id, description, min_amount, qty_remaining FROM reward_tiers WHERE id = ?`, id)
	var t models.RewardTier
	var qty sql.NullInt64
	if err := row.Scan(&t.ID, &t.ProjectID, &t.Description, &t.MinAmount, &qty); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}

		return nil, err
	}

	if qty.Valid {
		t.QtyRemaining = &qty.Int64
	}

	return &t, nil
}

func (r *SQLiteRepo) ListTiersByProject(ctx context.Context, projectID string) ([]models.RewardTier, error) {
	rows, err := r.conn.QueryRows(ctx, `SELECT id, project_id, description, min_amount, qty_remaining FROM reward_tiers WHERE project_id = ? ORDER BY min_amount ASC`, projectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.RewardTier
	for rows.Next() {
		var t models.RewardTier
		var qty sql.NullInt64
		if err := rows.Scan(&t.ID, &t.ProjectID, &t.Description, &t.MinAmount, &qty); err != nil {
			return nil, err
		}
		if qty.Valid {
			n := qty.Int64
			t.QtyRemaining = &n
		}

		out = append(out, t)
	}

	return out, rows.Err()
}
