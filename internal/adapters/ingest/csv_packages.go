// Package ingest turns the package and distance CSV files into in-memory domain values.
package ingest

import (
	"delivery-scheduler/internal/domain"
	"delivery-scheduler/internal/store"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"
)

const packageColumns = 7

// LoadPackagesCSV reads the package file. The header row is skipped; a malformed row is
// logged and skipped without aborting the load.
func LoadPackagesCSV(path string) ([]*domain.Package, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("load packages: open %q: %w", path, err)
	}
	defer f.Close()

	pkgs, err := ReadPackages(f)
	if err != nil {
		return nil, fmt.Errorf("load packages: %q: %w", path, err)
	}
	return pkgs, nil
}

// ReadPackages parses package records from r.
func ReadPackages(r io.Reader) ([]*domain.Package, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	if _, err := reader.Read(); err != nil {
		if errors.Is(err, io.EOF) {
			return []*domain.Package{}, nil
		}
		return nil, fmt.Errorf("read header: %w", err)
	}

	pkgs := make([]*domain.Package, 0, 64)
	line := 1
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			logrus.WithField("line", line).WithError(err).Warn("skipping unreadable package record")
			continue
		}

		pkg, err := parsePackageRow(row)
		if err != nil {
			logrus.WithField("line", line).WithError(err).Warn("skipping malformed package record")
			continue
		}
		pkgs = append(pkgs, pkg)
	}

	return pkgs, nil
}

func parsePackageRow(row []string) (*domain.Package, error) {
	if len(row) < packageColumns {
		return nil, fmt.Errorf("want at least %d columns, got %d", packageColumns, len(row))
	}

	id, err := strconv.Atoi(strings.TrimSpace(row[0]))
	if err != nil || id < 1 {
		return nil, fmt.Errorf("invalid package id %q", row[0])
	}

	addr := domain.Address{
		Street: strings.TrimSpace(row[1]),
		City:   strings.TrimSpace(row[2]),
		State:  strings.TrimSpace(row[3]),
		Zip:    strings.TrimSpace(row[4]),
	}
	if addr.Street == "" || addr.Zip == "" {
		return nil, fmt.Errorf("package %d: address and zip are required", id)
	}

	deadline, err := domain.ParseTimeOfDay(row[5])
	if err != nil {
		return nil, fmt.Errorf("package %d: invalid delivery deadline: %w", id, err)
	}

	weight, err := strconv.ParseFloat(strings.TrimSpace(row[6]), 64)
	if err != nil || weight <= 0 {
		return nil, fmt.Errorf("package %d: invalid weight %q", id, row[6])
	}

	note := ""
	if len(row) > packageColumns {
		note = strings.Join(row[packageColumns:], ",")
	}

	return domain.NewPackage(id, addr, weight, deadline, note), nil
}

// BuildStore inserts packages into a new store in the given order. A repeated id keeps
// the first record; later ones are logged and skipped.
func BuildStore(pkgs []*domain.Package, buckets int) (*store.PackageStore, error) {
	s, err := store.NewPackageStore(buckets)
	if err != nil {
		return nil, fmt.Errorf("build store: %w", err)
	}
	for _, p := range pkgs {
		if _, dup := s.Lookup(p.PackageID); dup {
			logrus.WithFields(logrus.Fields{
				"package_id": p.PackageID,
				"address":    p.Location(),
			}).Warn("skipping duplicate package id")
			continue
		}
		if err := s.Insert(p.PackageID, p); err != nil {
			return nil, fmt.Errorf("build store: %w", err)
		}
	}
	return s, nil
}
