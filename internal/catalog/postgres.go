// internal/catalog/postgres.go
package catalog

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"festival-matcher/internal/matching"

	"github.com/lib/pq"
)

// PostgresSource reads festivals from a table. Rows with active = false are
// left out. The table name comes from validated config, never from input.
type PostgresSource struct {
	db    *sql.DB
	table string
}

func NewPostgresSource(db *sql.DB, table string) *PostgresSource {
	return &PostgresSource{db: db, table: table}
}

func (s *PostgresSource) Name() string { return "postgres" }

func (s *PostgresSource) Load(ctx context.Context) (*Document, error) {
	query := fmt.Sprintf(`
		SELECT id, name, city, country, region, genres, vibes,
		       cost_min, cost_max, months, duration_days, crowd_size,
		       family_friendly, camping, glamping
		FROM %s
		WHERE active = true
		ORDER BY id`, pq.QuoteIdentifier(s.table))

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%w: query festivals: %v", ErrCatalogUnavailable, err)
	}
	defer rows.Close()

	var festivals []matching.Candidate
	for rows.Next() {
		c, err := scanFestival(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scan festival: %v", ErrCatalogInvalid, err)
		}
		festivals = append(festivals, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterate festivals: %v", ErrCatalogUnavailable, err)
	}

	version, err := s.version(ctx)
	if err != nil {
		return nil, err
	}

	return &Document{Version: version, Festivals: festivals}, nil
}

func (s *PostgresSource) version(ctx context.Context) (string, error) {
	query := fmt.Sprintf(`SELECT MAX(updated_at) FROM %s WHERE active = true`, pq.QuoteIdentifier(s.table))

	var updated pq.NullTime
	if err := s.db.QueryRowContext(ctx, query).Scan(&updated); err != nil {
		return "", fmt.Errorf("%w: read catalog version: %v", ErrCatalogUnavailable, err)
	}
	if !updated.Valid {
		return "", nil
	}
	return updated.Time.UTC().Format(time.RFC3339), nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanFestival(row rowScanner) (matching.Candidate, error) {
	var (
		c                 matching.Candidate
		city, country     sql.NullString
		region, crowd     sql.NullString
		genres, vibes     pq.StringArray
		costMin, costMax  sql.NullFloat64
		months            pq.Int64Array
		duration          sql.NullInt64
		family, camp, gla sql.NullBool
	)

	if err := row.Scan(
		&c.ID, &c.Name, &city, &country, &region, &genres, &vibes,
		&costMin, &costMax, &months, &duration, &crowd,
		&family, &camp, &gla,
	); err != nil {
		return c, err
	}

	c.City = city.String
	c.Country = country.String
	c.Region = region.String
	c.Genres = []string(genres)
	c.Vibes = []string(vibes)
	if costMin.Valid && costMax.Valid {
		c.Cost = &matching.Range{Min: costMin.Float64, Max: costMax.Float64}
	}
	for _, m := range months {
		if m >= 1 && m <= 12 {
			c.Months = append(c.Months, time.Month(m))
		}
	}
	c.DurationDays = int(duration.Int64)
	if crowd.Valid {
		c.CrowdSize = matching.ParseCrowdSize(crowd.String)
		if c.CrowdSize == matching.CrowdAny {
			c.CrowdSize = matching.CrowdUnknown
		}
	}
	c.Amenities = matching.Amenities{
		FamilyFriendly: nullBool(family),
		Camping:        nullBool(camp),
		Glamping:       nullBool(gla),
	}
	return c, nil
}

func nullBool(b sql.NullBool) *bool {
	if !b.Valid {
		return nil
	}
	v := b.Bool
	return &v
}
