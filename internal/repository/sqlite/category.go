package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/phattraset/crowdfunding-01/pkg/models"
)

func (r *SQLiteRepo) CreateCategory(ctx context.Context, c *models.Category) (int64, error) {
	if c == nil {
		return 0, fmt.Errorf("category is nil")
	}

	res, err := r.conn.Exec(ctx, `INSERT INTO categories (name) VALUES (?)`, c.Name)
	if err != nil {
		return 0, err
	}

	return res.LastInsertId()
}

func (r *SQLiteRepo) GetCategoryByName(ctx context.Context, name string) (*models.Category, error) {
	row := r.conn.QueryRow(ctx, `SELECT id, name FROM categories WHERE name = ?`, name)
	var c models.Category
	if err := row.Scan(&c.ID, &c.Name); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}

		return nil, err
	}

	return &c, nil
}

func (r *SQLiteRepo) ListCategories(ctx context.Context) ([]models.Category, error) {
	rows, err := r.conn.QueryRows(ctx, `SELECT id, name FROM categories ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Category
	for rows.Next() {
		var c models.Category
		if err := rows.Scan(&c.ID, &c.Name); err != nil {
			return nil, err
		}

		out = append(out, c)
	}

	return out, rows.Err()
}
