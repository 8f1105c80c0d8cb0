package repositories

import (
	"context"
	"database/sql"
	"delivery-scheduler/internal/domain"
	"delivery-scheduler/internal/platform/obs"
	"delivery-scheduler/internal/ports"
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

var _ ports.RunRepository = (*SQLRunRepository)(nil)

// SQL-backed implementation of the RunRepository port.
type SQLRunRepository struct {
	DB      *sql.DB
	Dialect Dialect
}

func NewSQLRunRepository(db *sql.DB, d Dialect) *SQLRunRepository {
	return &SQLRunRepository{DB: db, Dialect: d}
}

// Persist the run summary, truck odometers and every package's routing state in one
// transaction. A record without an id gets a fresh one.
func (s *SQLRunRepository) SaveRun(ctx context.Context, run ports.RunRecord) (err error) {
	defer obs.Time(ctx, "repositories.SaveRun")(&err)

	if s.DB == nil {
		return errors.New("run repository: DB is nil")
	}

	if run.RunID == "" {
		run.RunID = uuid.NewString()
	} else if _, err := uuid.Parse(run.RunID); err != nil {
		return fmt.Errorf("save run: invalid run id %q: %w", run.RunID, err)
	}
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now()
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("save run: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx, s.Dialect.Rebind(`
	INSERT INTO runs (run_id, created_at, total_miles, late_packages)
	VALUES (?, ?, ?, ?);
	`), run.RunID, run.CreatedAt.UTC().Format(time.RFC3339), run.TotalMiles, joinIDs(run.LatePackages))
	if err != nil {
		return fmt.Errorf("save run: insert run %s: %w", run.RunID, err)
	}

	truckIDs := make([]int, 0, len(run.TruckMiles))
	for id := range run.TruckMiles {
		truckIDs = append(truckIDs, id)
	}
	slices.Sort(truckIDs)
	for _, id := range truckIDs {
		_, err := tx.ExecContext(ctx, s.Dialect.Rebind(`
		INSERT INTO run_trucks (run_id, truck_id, miles) VALUES (?, ?, ?);
		`), run.RunID, id, run.TruckMiles[id])
		if err != nil {
			return fmt.Errorf("save run: insert truck %d: %w", id, err)
		}
	}

	stmt, err := tx.PrepareContext(ctx, s.Dialect.Rebind(`
	INSERT INTO deliveries (run_id, package_id, truck_id, street, zip, loaded_at, delivered_at)
	VALUES (?, ?, ?, ?, ?, ?, ?);
	`))
	if err != nil {
		return fmt.Errorf("save run: prepare deliveries: %w", err)
	}
	defer stmt.Close()

	for _, p := range run.Packages {
		var truck sql.NullInt64
		if p.TruckID != nil {
			truck = sql.NullInt64{Int64: int64(*p.TruckID), Valid: true}
		}
		_, err := stmt.ExecContext(ctx,
			run.RunID,
			p.PackageID,
			truck,
			p.Address.Street,
			p.Address.Zip,
			clockValue(p.TimeLoaded),
			clockValue(p.TimeDelivered),
		)
		if err != nil {
			return fmt.Errorf("save run: insert delivery package_id=%d: %w", p.PackageID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("save run: commit tx: %w", err)
	}

	return nil
}

func clockValue(t *domain.TimeOfDay) sql.NullString {
	if t == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: t.String(), Valid: true}
}

func joinIDs(ids []int) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.Itoa(id)
	}
	return strings.Join(parts, ",")
}
