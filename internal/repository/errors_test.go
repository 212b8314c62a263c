package repository

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestPgErrorClassification(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		unique     bool
		foreignKey bool
	}{
		{name: "nil", err: nil},
		{name: "unique violation", err: &pgconn.PgError{Code: "23505", ConstraintName: "post_views_post_ip_uq"}, unique: true},
		{name: "wrapped unique violation", err: fmt.Errorf("insert like: %w", &pgconn.PgError{Code: "23505"}), unique: true},
		{name: "foreign key violation", err: &pgconn.PgError{Code: "23503"}, foreignKey: true},
		{name: "value too long", err: &pgconn.PgError{Code: "22001"}},
		{name: "no rows", err: pgx.ErrNoRows},
		{name: "plain error", err: errors.New("23505")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.unique, isUniqueViolation(tt.err))
			assert.Equal(t, tt.foreignKey, isForeignKeyViolation(tt.err))
		})
	}
}

func TestDBTimeMatchesTimestamptzPrecision(t *testing.T) {
	in := mustParse(t, "2024-03-01T10:00:00.123456789+02:00")
	out := dbTime(in)

	assert.Equal(t, 123456000, out.Nanosecond())
	assert.Equal(t, "UTC", out.Location().String())
	assert.True(t, out.Equal(in.Truncate(time.Microsecond)))
}
