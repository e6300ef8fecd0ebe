package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/shopspring/decimal"
)

// Replacer replaces the full contents of one table.
type Replacer interface {
	// Replace deletes every row of table and inserts rows in their place.
	// Each row holds values in columns order. Returns the number inserted.
	Replace(ctx context.Context, table string, columns []string, rows [][]any) (int64, error)
}

// Load hands fn a Replacer bound to the store's connection.
//
// With atomic=false each Replace commits on its own, so a failure leaves
// earlier tables loaded. With atomic=true every Replace made by fn runs in
// one transaction that commits only when fn returns nil.
func (s *Store) Load(ctx context.Context, atomic bool, fn func(Replacer) error) error {
	conn, err := s.db.Conn(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Close()

	if s.dialect.Copy {
		return conn.Raw(func(driverConn any) error {
			sc, ok := driverConn.(*stdlib.Conn)
			if !ok {
				return fmt.Errorf("unexpected driver connection %T", driverConn)
			}
			return loadCopy(ctx, sc.Conn(), atomic, fn)
		})
	}

	return s.loadInsert(ctx, conn, atomic, fn)
}

// ----------------------------------------------------------------------------
// COPY (postgres)
// ----------------------------------------------------------------------------

// beginner is satisfied by both *pgx.Conn and pgx.Tx; on a Tx, Begin opens
// a savepoint.
type beginner interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

func loadCopy(ctx context.Context, conn *pgx.Conn, atomic bool, fn func(Replacer) error) error {
	if !atomic {
		return fn(&copyReplacer{b: conn})
	}

	tx, err := conn.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := fn(&copyReplacer{b: tx}); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

type copyReplacer struct {
	b beginner
}

func (r *copyReplacer) Replace(ctx context.Context, table string, columns []string, rows [][]any) (int64, error) {
	tx, err := r.b.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("%s: begin: %w", table, err)
	}
	defer tx.Rollback(ctx)

	ident := pgx.Identifier{table}
	if _, err := tx.Exec(ctx, "DELETE FROM "+ident.Sanitize()); err != nil {
		return 0, fmt.Errorf("%s: delete: %w", table, err)
	}

	var n int64
	if len(rows) > 0 {
		converted, err := copyValues(rows)
		if err != nil {
			return 0, fmt.Errorf("%s: %w", table, err)
		}
		n, err = tx.CopyFrom(ctx, ident, columns, pgx.CopyFromRows(converted))
		if err != nil {
			return 0, fmt.Errorf("%s: copy: %w", table, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("%s: commit: %w", table, err)
	}
	return n, nil
}

// copyValues converts record values into types pgx encodes natively.
func copyValues(rows [][]any) ([][]any, error) {
	out := make([][]any, len(rows))
	for i, row := range rows {
		conv := make([]any, len(row))
		for j, v := range row {
			c, err := copyValue(v)
			if err != nil {
				return nil, fmt.Errorf("row %d column %d: %w", i+1, j+1, err)
			}
			conv[j] = c
		}
		out[i] = conv
	}
	return out, nil
}

func copyValue(v any) (any, error) {
	switch x := v.(type) {
	case decimal.Decimal:
		return toNumeric(x)
	case decimal.NullDecimal:
		if !x.Valid {
			return nil, nil
		}
		return toNumeric(x.Decimal)
	case sql.NullString:
		if !x.Valid {
			return nil, nil
		}
		return x.String, nil
	case sql.NullInt64:
		if !x.Valid {
			return nil, nil
		}
		return x.Int64, nil
	case time.Time:
		return pgtype.Date{Time: x, Valid: true}, nil
	}
	return v, nil
}

func toNumeric(d decimal.Decimal) (pgtype.Numeric, error) {
	var n pgtype.Numeric
	if err := n.Scan(d.String()); err != nil {
		return n, fmt.Errorf("numeric %s: %w", d, err)
	}
	return n, nil
}

// ----------------------------------------------------------------------------
// Batched INSERT (other dialects)
// ----------------------------------------------------------------------------

func (s *Store) loadInsert(ctx context.Context, conn *sql.Conn, atomic bool, fn func(Replacer) error) error {
	r := &insertReplacer{conn: conn, dialect: s.dialect, batchSize: s.batchSize}
	if !atomic {
		return fn(r)
	}

	tx, err := conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	r.tx = tx

	if err := fn(r); err != nil {
		return errors.Join(err, ignoreDone(tx.Rollback()))
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

type insertReplacer struct {
	conn      *sql.Conn
	tx        *sql.Tx // shared transaction in atomic mode
	dialect   Dialect
	batchSize int
}

func (r *insertReplacer) Replace(ctx context.Context, table string, columns []string, rows [][]any) (n int64, err error) {
	tx := r.tx
	if tx == nil {
		tx, err = r.conn.BeginTx(ctx, nil)
		if err != nil {
			return 0, fmt.Errorf("%s: begin: %w", table, err)
		}
		defer func() {
			if err != nil {
				err = errors.Join(err, ignoreDone(tx.Rollback()))
			}
		}()
	}

	if _, err = tx.ExecContext(ctx, "DELETE FROM "+quoteIdent(table)); err != nil {
		return 0, fmt.Errorf("%s: delete: %w", table, err)
	}

	for start := 0; start < len(rows); start += r.batchSize {
		end := min(start+r.batchSize, len(rows))
		query, args := r.insertStatement(table, columns, rows[start:end])

		res, execErr := tx.ExecContext(ctx, query, args...)
		if execErr != nil {
			return 0, fmt.Errorf("%s: insert rows %d-%d: %w", table, start+1, end, execErr)
		}
		if affected, raErr := res.RowsAffected(); raErr == nil {
			n += affected
		} else {
			n += int64(end - start)
		}
	}

	if r.tx == nil {
		if err = tx.Commit(); err != nil {
			return 0, fmt.Errorf("%s: commit: %w", table, err)
		}
	}
	return n, nil
}

// insertStatement builds one multi-row INSERT for a batch.
func (r *insertReplacer) insertStatement(table string, columns []string, batch [][]any) (string, []any) {
	var sb strings.Builder
	sb.WriteString("INSERT INTO ")
	sb.WriteString(quoteIdent(table))
	sb.WriteString(" (")
	sb.WriteString(quoteIdents(columns))
	sb.WriteString(") VALUES ")

	args := make([]any, 0, len(batch)*len(columns))
	for i, row := range batch {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteByte('(')
		for j := range columns {
			if j > 0 {
				sb.WriteString(", ")
			}
			args = append(args, bindValue(row[j]))
			sb.WriteString(r.dialect.placeholder(len(args)))
		}
		sb.WriteByte(')')
	}
	return sb.String(), args
}

// bindValue normalizes values for drivers without a native DATE type.
func bindValue(v any) any {
	switch x := v.(type) {
	case time.Time:
		return x.Format("2006-01-02")
	case decimal.Decimal:
		return x.String()
	case decimal.NullDecimal:
		if !x.Valid {
			return nil
		}
		return x.Decimal.String()
	}
	return v
}

func ignoreDone(err error) error {
	if errors.Is(err, sql.ErrTxDone) {
		return nil
	}
	return err
}
