package main

import (
	"context"
	"fmt"
	"os"

	"github.com/phattraset/crowdfunding-01/internal/config"
	"github.com/phattraset/crowdfunding-01/internal/db"
)

// Reconciliation check: for every project, the stored current_amount must
// equal the sum of its accepted pledge amounts. The counter is maintained
// incrementally at pledge time; this report flags any drift.
func main() {
	ctx := context.Background()
	cfg, err := config.LoadConfig("")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}
	database, err := db.New(ctx, cfg.DatabasePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "DB error: %v\n", err)
		os.Exit(1)
	}
	defer database.Close()

	rows, err := database.QueryRows(ctx,
		`SELECT p.id, p.title, p.current_amount,
		        COALESCE((SELECT SUM(amount) FROM pledges WHERE project_id = p.id AND accepted = 1), 0) AS pledged
		 FROM projects p
		 ORDER BY p.id`)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Audit query error: %v\n", err)
		os.Exit(1)
	}
	defer rows.Close()

	drift := 0
	for rows.Next() {
		var id, title string
		var current, pledged int64
		if err := rows.Scan(&id, &title, &current, &pledged); err != nil {
			fmt.Fprintf(os.Stderr, "Audit scan error: %v\n", err)
			os.Exit(1)
		}
		if current != pledged {
			drift++
			fmt.Printf("DRIFT project %s (%s): current_amount=%d sum(accepted)=%d\n", id, title, current, pledged)
		}
	}
	if err := rows.Err(); err != nil {
		fmt.Fprintf(os.Stderr, "Audit rows error: %v\n", err)
		os.Exit(1)
	}

	if drift == 0 {
		fmt.Println("All project counters reconcile.")
		return
	}
	fmt.Printf("%d project(s) with drift.\n", drift)
	os.Exit(2)
}
