package repositories

import (
	"delivery-scheduler/internal/platform/db"
	"fmt"
	"strconv"
	"strings"
)

// Dialect captures the SQL differences between the supported databases.
type Dialect int

const (
	SQLite Dialect = iota
	Postgres
)

// DialectFor maps a database/sql driver name to its dialect.
func DialectFor(driver string) (Dialect, error) {
	switch driver {
	case db.DriverSQLite:
		return SQLite, nil
	case db.DriverPostgres:
		return Postgres, nil
	default:
		return 0, fmt.Errorf("dialect: unsupported driver %q", driver)
	}
}

func (d Dialect) String() string {
	if d == Postgres {
		return "postgres"
	}
	return "sqlite"
}

// Rebind rewrites "?" placeholders into the dialect's form.
func (d Dialect) Rebind(query string) string {
	if d != Postgres {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteString("$" + strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// Upsert builds an insert that replaces the row identified by keys.
func (d Dialect) Upsert(table string, columns []string, keys []string) string {
	ph := strings.TrimSuffix(strings.Repeat("?, ", len(columns)), ", ")

	if d == SQLite {
		return fmt.Sprintf("INSERT OR REPLACE INTO %s (%s) VALUES (%s);",
			table, strings.Join(columns, ", "), ph)
	}

	isKey := make(map[string]bool, len(keys))
	for _, k := range keys {
		isKey[k] = true
	}
	sets := make([]string, 0, len(columns))
	for _, c := range columns {
		if !isKey[c] {
			sets = append(sets, fmt.Sprintf("%s = EXCLUDED.%s", c, c))
		}
	}
	action := "DO NOTHING"
	if len(sets) > 0 {
		action = "DO UPDATE SET " + strings.Join(sets, ", ")
	}
	q := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s) ON CONFLICT (%s) %s;",
		table, strings.Join(columns, ", "), ph, strings.Join(keys, ", "), action)
	return d.Rebind(q)
}
