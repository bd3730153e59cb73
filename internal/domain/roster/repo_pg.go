package roster

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

var identPattern = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

// PGSource reads records from a Postgres roster table. Columns are
// discovered from the result set, so measure columns can be added to the
// table without touching this code.
type PGSource struct {
	pool  *pgxpool.Pool
	table string
}

// NewPGSource binds a connection pool to the given roster table. The table
// name is interpolated into query text and must be a bare SQL identifier.
// The caller owns the pool lifecycle.
func NewPGSource(pool *pgxpool.Pool, table string) (*PGSource, error) {
	if !identPattern.MatchString(table) {
		return nil, fmt.Errorf("invalid roster table name %q", table)
	}
	return &PGSource{pool: pool, table: table}, nil
}

// Records loads every roster row ordered by identity then member, so group
// order is stable across runs.
func (s *PGSource) Records(ctx context.Context) ([]Record, error) {
	query := fmt.Sprintf(
		"SELECT * FROM %s ORDER BY market, submarket, managing_entity, pod, provider, npi, member_id",
		s.table,
	)
	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query roster table: %w", err)
	}
	defer rows.Close()

	fieldDescs := rows.FieldDescriptions()
	var out []Record
	for rows.Next() {
		values, err := rows.Values()
		if err != nil {
			return nil, fmt.Errorf("read roster row: %w", err)
		}
		rec := make(Record, len(fieldDescs))
		for i, fd := range fieldDescs {
			if v := normalizeDBValue(values[i]); v != nil {
				rec[fd.Name] = v
			}
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("scan roster table: %w", err)
	}
	return out, nil
}

// normalizeDBValue flattens driver types to the scalars Record works with.
// SQL NULL stays absent.
func normalizeDBValue(v any) any {
	switch t := v.(type) {
	case nil:
		return nil
	case string, float64, int64, int32, int16, bool:
		return t
	case float32:
		return float64(t)
	case pgtype.Numeric:
		f, err := t.Float64Value()
		if err != nil || !f.Valid {
			return nil
		}
		return f.Float64
	case time.Time:
		return t.Format("2006-01-02")
	default:
		return fmt.Sprintf("%v", t)
	}
}
