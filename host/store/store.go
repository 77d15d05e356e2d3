// Package store records radar readings to SQLite.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"doppler/core"
	"doppler/host/monitor"

	_ "modernc.org/sqlite"
)

const schema = `
	CREATE TABLE IF NOT EXISTS readings (
		reading_id        INTEGER PRIMARY KEY AUTOINCREMENT,
		received_ns       BIGINT NOT NULL,
		sequence          BIGINT NOT NULL,
		sampling          TEXT NOT NULL,
		unit              TEXT NOT NULL,
		frequency_hz      DOUBLE NOT NULL,
		speed             DOUBLE NOT NULL
	);
	CREATE INDEX IF NOT EXISTS readings_received ON readings (received_ns);
`

// Store is a reading log. It implements monitor.Sink.
type Store struct {
	*sql.DB
}

// Open opens or creates the database at path
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	return &Store{db}, nil
}

func (s *Store) Record(ctx context.Context, sample monitor.Sample) error {
	_, err := s.ExecContext(ctx, `
		INSERT INTO readings (received_ns, sequence, sampling, unit, frequency_hz, speed)
		VALUES (?, ?, ?, ?, ?, ?)`,
		sample.Received.UnixNano(),
		int64(sample.Sequence),
		sample.Sampling.Label(),
		sample.Unit.Label(),
		sample.Frequency,
		sample.Speed,
	)
	if err != nil {
		return fmt.Errorf("failed to insert reading %d: %w", sample.Sequence, err)
	}
	return nil
}

// Recent returns up to limit readings, newest first
func (s *Store) Recent(ctx context.Context, limit int) ([]monitor.Sample, error) {
	rows, err := s.QueryContext(ctx, `
		SELECT received_ns, sequence, sampling, unit, frequency_hz, speed
		FROM readings
		ORDER BY reading_id DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query readings: %w", err)
	}
	defer rows.Close()

	var samples []monitor.Sample
	for rows.Next() {
		var (
			receivedNs int64
			sequence   int64
			sampling   string
			unit       string
			sample     monitor.Sample
		)
		if err := rows.Scan(&receivedNs, &sequence, &sampling, &unit, &sample.Frequency, &sample.Speed); err != nil {
			return nil, fmt.Errorf("failed to scan reading: %w", err)
		}
		sample.Received = time.Unix(0, receivedNs).UTC()
		sample.Sequence = uint32(sequence)
		sample.Sampling = parseSampling(sampling)
		sample.Unit = parseUnit(unit)
		samples = append(samples, sample)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read readings: %w", err)
	}
	return samples, nil
}

// Count returns the number of stored readings
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.QueryRowContext(ctx, `SELECT COUNT(*) FROM readings`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count readings: %w", err)
	}
	return n, nil
}

func parseSampling(label string) core.SamplingMode {
	if label == core.ComparatorEdge.Label() {
		return core.ComparatorEdge
	}
	return core.SampledWaveform
}

func parseUnit(label string) core.UnitMode {
	if label == core.Imperial.Label() {
		return core.Imperial
	}
	return core.Metric
}
