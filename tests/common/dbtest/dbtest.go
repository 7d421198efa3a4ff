//go:build unit || e2e

package dbtest

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ResetDB truncates every table so each test starts from a clean slate.
func ResetDB(pool *pgxpool.Pool) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_, err := pool.Exec(ctx, `
		TRUNCATE bookings, working_hours_rules, availability_exceptions,
		         rooms, appointment_type_rules CASCADE
	`)
	return err
}

// SeedTypeRule inserts a 30-minute appointment type allowing the given staff.
func SeedTypeRule(pool *pgxpool.Pool, id uuid.UUID, staffIDs []uuid.UUID) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_, err := pool.Exec(ctx, `
		INSERT INTO appointment_type_rules (
			id, name, default_duration_min, capacity_per_slot,
			allowed_staff_ids, allow_online_booking, max_days_ahead
		) VALUES ($1, 'checkup', 30, 1, $2, true, 90)
	`, id, staffIDs)
	return err
}

// SeedWorkingHours inserts a weekly rule without break or room pinning.
func SeedWorkingHours(pool *pgxpool.Pool, staffID, branchID uuid.UUID, weekday, startMin, endMin int) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_, err := pool.Exec(ctx, `
		INSERT INTO working_hours_rules (
			id, staff_id, branch_id, weekday, start_min, end_min
		) VALUES ($1, $2, $3, $4, $5, $6)
	`, uuid.New(), staffID, branchID, weekday, startMin, endMin)
	return err
}
