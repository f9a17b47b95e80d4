package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/ca-srg/propertime/domain"
	"github.com/ca-srg/propertime/domain/entity"
	"github.com/ca-srg/propertime/domain/repository"
	"github.com/ca-srg/propertime/domain/valueobject"
)

const seriesSchema = `
CREATE TABLE IF NOT EXISTS series (
	id         TEXT PRIMARY KEY,
	label      TEXT NOT NULL,
	span       TEXT NOT NULL,
	start_at   TEXT NOT NULL,
	end_at     TEXT NOT NULL,
	points     INTEGER NOT NULL,
	created_at TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS series_points (
	series_id TEXT NOT NULL,
	position  INTEGER NOT NULL,
	epoch     REAL NOT NULL,
	instant   TEXT NOT NULL,
	PRIMARY KEY (series_id, position)
);
CREATE INDEX IF NOT EXISTS idx_series_created_at ON series (created_at);
`

// SQLiteSeriesRepository implements SeriesRepository on a SQLite database.
// Instants are stored in their canonical text form so zones and offsets
// survive the round trip.
type SQLiteSeriesRepository struct {
	db     *sql.DB
	dbPath string
}

// DefaultSeriesDBPath returns the database path under the config directory
func DefaultSeriesDBPath(configDir string) string {
	return filepath.Join(configDir, "series.db")
}

// NewSQLiteSeriesRepository opens (creating if needed) the database at dbPath
func NewSQLiteSeriesRepository(dbPath string) (repository.SeriesRepository, error) {
	if dbPath == "" {
		return nil, domain.ErrInvalidInput("dbPath", "cannot be empty")
	}
	if dbPath != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(dbPath), 0700); err != nil {
			return nil, domain.ErrFileOperationWithCause("create directory", filepath.Dir(dbPath), err)
		}
	}

	db, err := sql.Open("sqlite3", dbPath+"?_busy_timeout=5000")
	if err != nil {
		return nil, domain.ErrRepository("open series database", err)
	}
	// A single connection keeps ":memory:" databases shared across calls
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(seriesSchema); err != nil {
		_ = db.Close()
		return nil, domain.ErrRepository("create series schema", err)
	}

	return &SQLiteSeriesRepository{db: db, dbPath: dbPath}, nil
}

// Save stores the series and its points, replacing a previous copy
func (r *SQLiteSeriesRepository) Save(ctx context.Context, series *entity.Series) (err error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return domain.ErrRepository("begin transaction", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, `DELETE FROM series_points WHERE series_id = ?`, series.ID()); err != nil {
		return domain.ErrRepository("delete previous points", err)
	}

	_, err = tx.ExecContext(ctx,
		`INSERT OR REPLACE INTO series (id, label, span, start_at, end_at, points, created_at) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		series.ID(),
		series.Label(),
		series.Span().String(),
		series.Start().String(),
		series.End().String(),
		series.Len(),
		series.CreatedAt().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return domain.ErrRepository("insert series", err)
	}

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO series_points (series_id, position, epoch, instant) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return domain.ErrRepository("prepare point insert", err)
	}
	defer func() {
		_ = stmt.Close()
	}()

	for i, point := range series.Points() {
		if _, err = stmt.ExecContext(ctx, series.ID(), i, point.Seconds(), point.String()); err != nil {
			return domain.ErrRepository(fmt.Sprintf("insert point %d", i), err)
		}
	}

	if err = tx.Commit(); err != nil {
		return domain.ErrRepository("commit series", err)
	}
	return nil
}

// FindByID loads a series with all of its points
func (r *SQLiteSeriesRepository) FindByID(ctx context.Context, id string) (*entity.Series, error) {
	var (
		label, span, startText, endText, createdText string
		count                                       int
	)
	err := r.db.QueryRowContext(ctx,
		`SELECT label, span, start_at, end_at, points, created_at FROM series WHERE id = ?`, id,
	).Scan(&label, &span, &startText, &endText, &count, &createdText)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound("series", id)
	}
	if err != nil {
		return nil, domain.ErrRepository("query series", err)
	}

	step, err := valueobject.ParseSpan(span)
	if err != nil {
		return nil, domain.ErrRepository("decode span", err)
	}
	start, err := valueobject.Parse(startText)
	if err != nil {
		return nil, domain.ErrRepository("decode start", err)
	}
	end, err := valueobject.Parse(endText)
	if err != nil {
		return nil, domain.ErrRepository("decode end", err)
	}
	createdAt, err := time.Parse(time.RFC3339Nano, createdText)
	if err != nil {
		return nil, domain.ErrRepository("decode created_at", err)
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT instant FROM series_points WHERE series_id = ? ORDER BY position`, id)
	if err != nil {
		return nil, domain.ErrRepository("query points", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	points := make([]valueobject.Instant, 0, count)
	for rows.Next() {
		var text string
		if err := rows.Scan(&text); err != nil {
			return nil, domain.ErrRepository("scan point", err)
		}
		point, err := valueobject.Parse(text)
		if err != nil {
			return nil, domain.ErrRepository("decode point", err)
		}
		points = append(points, point)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.ErrRepository("iterate points", err)
	}
	if len(points) != count {
		return nil, domain.ErrRepository("load series",
			fmt.Errorf("series %s has %d points, expected %d", id, len(points), count))
	}

	return entity.RestoreSeries(id, label, step, start, end, points, createdAt)
}

// List returns all stored series, newest first, without their points
func (r *SQLiteSeriesRepository) List(ctx context.Context) ([]repository.SeriesSummary, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, label, span, start_at, end_at, points, created_at FROM series ORDER BY created_at DESC, id`)
	if err != nil {
		return nil, domain.ErrRepository("list series", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var summaries []repository.SeriesSummary
	for rows.Next() {
		var (
			s           repository.SeriesSummary
			createdText string
		)
		if err := rows.Scan(&s.ID, &s.Label, &s.Span, &s.Start, &s.End, &s.Points, &createdText); err != nil {
			return nil, domain.ErrRepository("scan series", err)
		}
		if s.CreatedAt, err = time.Parse(time.RFC3339Nano, createdText); err != nil {
			return nil, domain.ErrRepository("decode created_at", err)
		}
		summaries = append(summaries, s)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.ErrRepository("iterate series", err)
	}
	return summaries, nil
}

// Delete removes a series and its points
func (r *SQLiteSeriesRepository) Delete(ctx context.Context, id string) (err error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return domain.ErrRepository("begin transaction", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	res, err := tx.ExecContext(ctx, `DELETE FROM series WHERE id = ?`, id)
	if err != nil {
		return domain.ErrRepository("delete series", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return domain.ErrRepository("delete series", err)
	}
	if affected == 0 {
		err = domain.ErrNotFound("series", id)
		return err
	}
	if _, err = tx.ExecContext(ctx, `DELETE FROM series_points WHERE series_id = ?`, id); err != nil {
		return domain.ErrRepository("delete points", err)
	}

	if err = tx.Commit(); err != nil {
		return domain.ErrRepository("commit delete", err)
	}
	return nil
}

// Close closes the database
func (r *SQLiteSeriesRepository) Close() error {
	return r.db.Close()
}
