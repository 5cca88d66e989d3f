package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/phattraset/crowdfunding-01/pkg/models"
)

func (r *SQLiteRepo) CreateProject(ctx context.Context, p *models.Project) error {
	if p == nil {
		return fmt.Errorf("project is nil")
	}

	_, err := r.conn.Exec(ctx,
		`INSERT INTO projects (id, title, description, goal_amount, current_amount, deadline, created_at, category_id) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ID, p.Title, p.Description, p.GoalAmount, p.CurrentAmount, p.Deadline, p.CreatedAt, p.CategoryID)
	return err
}

func (r *SQLiteRepo) GetProjectByID(ctx context.Context, id string) (*models.Project, error) {
	row := r.conn.QueryRow(ctx, `SELECT id, title, description, goal_amount, current_amount, deadline, created_at, category_id FROM projects WHERE id = ?`, id)
	var p models.Project
	if err := row.Scan(&p.ID, &p.Title, &p.Description, &p.GoalAmount, &p.CurrentAmount, &p.Deadline, &p.CreatedAt, &p.CategoryID); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}

		return nil, err
	}

	return &p, nil
}

func (r *SQLiteRepo) ListProjects(ctx context.Context, f models.ProjectFilter) ([]models.Project, error) {
	query := `SELECT p.id, p.title, p.description, p.goal_amount, p.current_amount, p.deadline, p.created_at, p.category_id FROM projects p`
	var args []any

	where := ""
	if f.Category != "" {
		query += ` JOIN categories c ON c.id = p.category_id`
		where = ` WHERE c.name = ?`
		args = append(args, f.Category)
	}
	if f.Query != "" {
		if where == "" {
			where = ` WHERE`
		} else {
			where += ` AND`
		}
		where += ` p.title LIKE ? COLLATE NOCASE`
		args = append(args, "%"+f.Query+"%")
	}
	query += where

	switch f.Sort {
	case "ending_soon":
		query += ` ORDER BY p.deadline ASC`
	case "most_funded":
		query += ` ORDER BY p.current_amount DESC`
	default: // newest
		query += ` ORDER BY p.created_at DESC`
	}

	rows, err := r.conn.QueryRows(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Project
	for rows.Next() {
		var p models.Project
		if err := rows.Scan(&p.ID, &p.Title, &p.Description, &p.GoalAmount, &p.CurrentAmount, &p.Deadline, &p.CreatedAt, &p.CategoryID); err != nil {
			return nil, err
		}

		out = append(out, p)
	}

	return out, rows.Err()
}
