package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/fekuna/omnipos-inventory-snapshot/internal/model"
	"github.com/jackc/pgx/v5"
	"github.com/jmoiron/sqlx"
)

// DefaultInsertChunk keeps each multi-row INSERT well under the 65535
// bind parameter limit (23 columns per row).
const DefaultInsertChunk = 1000

var snapshotColumns = []string{
	"id", "snapshot_date", "snapshot_ts", "run_id",
	"sku", "product_name", "variant_id", "inventory_item_id",
	"colorway", "size", "product_class", "size_class",
	"safety_stock", "available_quantity", "balance_vs_safety",
	"product_class_weight", "size_class_weight", "total_weight",
	"is_tracked", "in_stock_v1", "weighted_in_stock_v1", "in_stock_v2", "weighted_in_stock_v2",
}

type PGRepository struct {
	DB    *sqlx.DB
	table string
	index string
	chunk int
}

// NewPGRepository targets table, which may be schema qualified ("analytics.inventory_snapshots").
func NewPGRepository(db *sqlx.DB, table string) *PGRepository {
	ident := TableIdentifier(table)
	return &PGRepository{
		DB:    db,
		table: ident.Sanitize(),
		index: pgx.Identifier{ident[len(ident)-1] + "_snapshot_date_idx"}.Sanitize(),
		chunk: DefaultInsertChunk,
	}
}

// TableIdentifier splits a dotted table name into a quoted identifier.
func TableIdentifier(table string) pgx.Identifier {
	parts := strings.Split(strings.TrimSpace(table), ".")
	ident := make(pgx.Identifier, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			ident = append(ident, p)
		}
	}
	if len(ident) == 0 {
		ident = pgx.Identifier{"inventory_snapshots"}
	}
	return ident
}

func (r *PGRepository) EnsureSchema(ctx context.Context) error {
	ddl := fmt.Sprintf(`
        CREATE TABLE IF NOT EXISTS %s (
            id                   UUID PRIMARY KEY,
            snapshot_date        DATE NOT NULL,
            snapshot_ts          TIMESTAMPTZ NOT NULL,
            run_id               TEXT NOT NULL,
            sku                  TEXT NOT NULL,
            product_name         TEXT NOT NULL DEFAULT '',
            variant_id           TEXT NOT NULL DEFAULT '',
            inventory_item_id    TEXT NOT NULL DEFAULT '',
            colorway             TEXT NOT NULL DEFAULT '',
            size                 TEXT NOT NULL DEFAULT '',
            product_class        TEXT NOT NULL DEFAULT '',
            size_class           TEXT NOT NULL DEFAULT '',
            safety_stock         INTEGER NOT NULL DEFAULT 0,
            available_quantity   INTEGER NOT NULL DEFAULT 0,
            balance_vs_safety    INTEGER NOT NULL DEFAULT 0,
            product_class_weight INTEGER NOT NULL DEFAULT 0,
            size_class_weight    INTEGER NOT NULL DEFAULT 0,
            total_weight         INTEGER NOT NULL DEFAULT 0,
            is_tracked           BOOLEAN NOT NULL DEFAULT FALSE,
            in_stock_v1          BOOLEAN NOT NULL DEFAULT FALSE,
            weighted_in_stock_v1 INTEGER NOT NULL DEFAULT 0,
            in_stock_v2          BOOLEAN NOT NULL DEFAULT FALSE,
            weighted_in_stock_v2 INTEGER NOT NULL DEFAULT 0
        )`, r.table)
	if _, err := r.DB.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("create snapshot table: %w", err)
	}

	idx := fmt.Sprintf(`CREATE INDEX IF NOT EXISTS %s ON %s (snapshot_date)`, r.index, r.table)
	if _, err := r.DB.ExecContext(ctx, idx); err != nil {
		return fmt.Errorf("create snapshot date index: %w", err)
	}
	return nil
}

// ListSnapshotDates returns every distinct snapshot_date as YYYY-MM-DD.
func (r *PGRepository) ListSnapshotDates(ctx context.Context) ([]string, error) {
	var dates []string
	query := fmt.Sprintf(`SELECT DISTINCT to_char(snapshot_date, 'YYYY-MM-DD') FROM %s`, r.table)
	if err := r.DB.SelectContext(ctx, &dates, query); err != nil {
		return nil, fmt.Errorf("list snapshot dates: %w", err)
	}
	return dates, nil
}

// AppendRows inserts all rows in one transaction, so a run either lands
// completely or not at all.
func (r *PGRepository) AppendRows(ctx context.Context, rows []model.SnapshotRow) (int, error) {
	if len(rows) == 0 {
		return 0, nil
	}

	tx, err := r.DB.BeginTxx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	query := InsertQuery(r.table)
	inserted := 0
	for start := 0; start < len(rows); start += r.chunk {
		end := min(start+r.chunk, len(rows))
		res, err := tx.NamedExecContext(ctx, query, rows[start:end])
		if err != nil {
			return 0, fmt.Errorf("append snapshot rows %d-%d: %w", start, end, err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			n = int64(end - start)
		}
		inserted += int(n)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit snapshot rows: %w", err)
	}
	return inserted, nil
}

// InsertQuery builds the named multi-row INSERT for an already sanitized table.
func InsertQuery(table string) string {
	named := make([]string, len(snapshotColumns))
	for i, c := range snapshotColumns {
		named[i] = ":" + c
	}
	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		table, strings.Join(snapshotColumns, ", "), strings.Join(named, ", "))
}
