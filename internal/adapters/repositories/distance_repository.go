package repositories

import (
	"context"
	"database/sql"
	"delivery-scheduler/internal/adapters/distance"
	"delivery-scheduler/internal/platform/obs"
	"delivery-scheduler/internal/ports"
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
)

var _ ports.DistanceMatrixProvider = (*SQLDistanceRepository)(nil)

// SQL-backed store for the distance table. Each undirected pair is one row; keys are
// the canonical location keys produced by ingestion.
//
// The repository also serves the engine directly as a distance provider; those lookups
// run under the context bound with WithContext.
type SQLDistanceRepository struct {
	DB      *sql.DB
	Dialect Dialect

	ctx context.Context
}

func NewSQLDistanceRepository(db *sql.DB, d Dialect) *SQLDistanceRepository {
	return &SQLDistanceRepository{DB: db, Dialect: d}
}

// WithContext returns a copy whose provider lookups run under ctx.
func (s *SQLDistanceRepository) WithContext(ctx context.Context) *SQLDistanceRepository {
	c := *s
	c.ctx = ctx
	return &c
}

func (s *SQLDistanceRepository) lookupContext() context.Context {
	if s.ctx == nil {
		return context.Background()
	}
	return s.ctx
}

// Distance implements ports.DistanceProvider.
func (s *SQLDistanceRepository) Distance(origin, destination string) (float64, error) {
	got, err := s.Distances(origin, []string{destination})
	if err != nil {
		return 0, err
	}
	return got[destination], nil
}

// Distances implements ports.DistanceMatrixProvider with one GetMany query. The first
// destination without a stored pair fails the batch with a MissingDistanceError.
func (s *SQLDistanceRepository) Distances(origin string, destinations []string) (map[string]float64, error) {
	origin = locationKey(origin)
	if origin == "" {
		return nil, &distance.MissingDistanceError{From: origin, To: firstOf(destinations)}
	}

	found, err := s.GetMany(s.lookupContext(), origin, destinations)
	if err != nil {
		return nil, err
	}

	out := make(map[string]float64, len(destinations))
	for _, d := range destinations {
		key := locationKey(d)
		miles, ok := found[key]
		if !ok {
			return nil, &distance.MissingDistanceError{From: origin, To: key}
		}
		out[d] = miles
	}
	return out, nil
}

// Has reports whether the location appears in any stored pair. Query failures are
// logged and reported as absent.
func (s *SQLDistanceRepository) Has(location string) bool {
	if s.DB == nil {
		return false
	}
	location = locationKey(location)

	var one int
	err := s.DB.QueryRowContext(s.lookupContext(), s.Dialect.Rebind(`
	SELECT 1 FROM distances
	WHERE origin = ? OR destination = ?
	LIMIT 1;
	`), location, location).Scan(&one)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			logrus.WithError(err).WithField("location", location).Warn("distance lookup failed")
		}
		return false
	}
	return true
}

// locationKey collapses whitespace the same way the in-memory index does.
func locationKey(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func firstOf(xs []string) string {
	if len(xs) == 0 {
		return ""
	}
	return xs[0]
}

// Store every pair of the index, replacing existing rows.
func (s *SQLDistanceRepository) SaveIndex(ctx context.Context, idx *distance.Index) (err error) {
	defer obs.Time(ctx, "repositories.SaveIndex")(&err)

	if s.DB == nil {
		return errors.New("distance repository: DB is nil")
	}
	if idx == nil {
		return errors.New("save distances: index is nil")
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("save distances: db begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, s.Dialect.Upsert("distances",
		[]string{"origin", "destination", "miles"},
		[]string{"origin", "destination"},
	))
	if err != nil {
		return fmt.Errorf("save distances: db prepare: %w", err)
	}
	defer stmt.Close()

	for _, p := range idx.Pairs() {
		if _, err := stmt.ExecContext(ctx, p.From, p.To, p.Miles); err != nil {
			return fmt.Errorf("save distances %q->%q: %w", p.From, p.To, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("save distances commit: %w", err)
	}

	return nil
}

// Rebuild the in-memory index from every stored pair.
func (s *SQLDistanceRepository) LoadIndex(ctx context.Context) (_ *distance.Index, err error) {
	defer obs.Time(ctx, "repositories.LoadIndex")(&err)

	if s.DB == nil {
		return nil, errors.New("distance repository: DB is nil")
	}

	rows, err := s.DB.QueryContext(ctx, `
	SELECT origin, destination, miles
	FROM distances
	ORDER BY origin, destination;
	`)
	if err != nil {
		return nil, fmt.Errorf("load distances: query distances table: %w", err)
	}
	defer rows.Close()

	pairs := make([]distance.Pair, 0, 512)
	for rows.Next() {
		var p distance.Pair
		if err := rows.Scan(&p.From, &p.To, &p.Miles); err != nil {
			return nil, fmt.Errorf("load distances: scan rows: %w", err)
		}
		pairs = append(pairs, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("load distances: row iteration: %w", err)
	}

	return distance.NewIndexFromPairs(pairs), nil
}

// Fetch stored distances for one origin and multiple destinations. Pairs are
// undirected, so both column orders are matched. Unknown destinations are absent
// from the result.
func (s *SQLDistanceRepository) GetMany(
	ctx context.Context,
	origin string,
	destinations []string,
) (_ map[string]float64, err error) {
	defer obs.Time(ctx, "repositories.GetMany")(&err)

	if s.DB == nil {
		return nil, errors.New("distance repository: DB is nil")
	}

	origin = locationKey(origin)
	if origin == "" {
		return nil, errors.New("get distances: origin must not be empty")
	}

	seen := map[string]struct{}{}
	uniq := make([]string, 0, len(destinations))
	ph := make([]string, 0, len(destinations))
	for _, d := range destinations {
		d = locationKey(d)
		if d == "" {
			continue
		}

		if _, ok := seen[d]; ok {
			continue
		}
		seen[d] = struct{}{}
		uniq = append(uniq, d)
		ph = append(ph, "?")
	}

	if len(uniq) == 0 {
		return map[string]float64{}, nil
	}

	placeholders := strings.Join(ph, ",")
	args := make([]any, 0, 2+2*len(uniq))
	args = append(args, origin)
	for _, d := range uniq {
		args = append(args, d)
	}
	args = append(args, origin)
	for _, d := range uniq {
		args = append(args, d)
	}

	// Only the placeholder structure is interpolated; all values remain parameterized.
	q := s.Dialect.Rebind(fmt.Sprintf(`
	SELECT destination, miles FROM distances
	WHERE origin = ? AND destination IN (%s)
	UNION ALL
	SELECT origin, miles FROM distances
	WHERE destination = ? AND origin IN (%s);
	`, placeholders, placeholders))

	rows, err := s.DB.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("get distances: query distances table: %w", err)
	}
	defer rows.Close()

	out := make(map[string]float64, len(uniq))
	for rows.Next() {
		var dest string
		var miles float64
		if err := rows.Scan(&dest, &miles); err != nil {
			return nil, fmt.Errorf("get distances: scan rows: %w", err)
		}
		out[dest] = miles
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("get distances: row iteration: %w", err)
	}

	if _, ok := seen[origin]; ok {
		out[origin] = 0
	}

	return out, nil
}
