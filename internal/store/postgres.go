package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/RAFagb11/synked-sub001/internal/common"
)

// Postgres keeps every record as a row in a single documents table with a
// jsonb payload, which gives the schemaless merge-and-filter contract the
// services expect while reusing the ordinary connection pool.
type Postgres struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

func (p *Postgres) EnsureSchema(ctx context.Context) error {
	_, err := p.db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS documents (
		collection text NOT NULL,
		id text NOT NULL,
		data jsonb NOT NULL,
		PRIMARY KEY (collection, id)
	)`)
	if err != nil {
		return common.NewError(common.CodeUnavailable, "failed to ensure documents table", err)
	}
	return nil
}

func (p *Postgres) Get(ctx context.Context, collection, id string) (map[string]any, error) {
	row := p.db.QueryRowContext(ctx, `SELECT data FROM documents WHERE collection = $1 AND id = $2`, collection, id)
	var raw []byte
	if err := row.Scan(&raw); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.NewError(common.CodeNotFound, "record not found", err)
		}
		return nil, common.NewError(common.CodeUnavailable, "store read failed", err)
	}
	var doc map[string]any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, common.NewError(common.CodeInternal, "malformed record", err)
	}
	return doc, nil
}

func (p *Postgres) Put(ctx context.Context, collection, id string, fields map[string]any) error {
	raw, err := json.Marshal(fields)
	if err != nil {
		return common.NewError(common.CodeInternal, "failed to encode record", err)
	}
	_, err = p.db.ExecContext(ctx, `INSERT INTO documents (collection, id, data) VALUES ($1, $2, $3)
		ON CONFLICT (collection, id) DO UPDATE SET data = EXCLUDED.data`, collection, id, raw)
	if err != nil {
		return common.NewError(common.CodeUnavailable, "store write failed", err)
	}
	return nil
}

func (p *Postgres) Update(ctx context.Context, collection, id string, fields map[string]any) error {
	raw, err := json.Marshal(fields)
	if err != nil {
		return common.NewError(common.CodeInternal, "failed to encode record", err)
	}
	result, err := p.db.ExecContext(ctx, `UPDATE documents SET data = data || $3::jsonb WHERE collection = $1 AND id = $2`, collection, id, raw)
	if err != nil {
		return common.NewError(common.CodeUnavailable, "store update failed", err)
	}
	rows, err := result.RowsAffected()
	if err == nil && rows == 0 {
		return common.NewError(common.CodeNotFound, "record not found", sql.ErrNoRows)
	}
	return nil
}

func (p *Postgres) Delete(ctx context.Context, collection, id string) error {
	result, err := p.db.ExecContext(ctx, `DELETE FROM documents WHERE collection = $1 AND id = $2`, collection, id)
	if err != nil {
		return common.NewError(common.CodeUnavailable, "store delete failed", err)
	}
	rows, err := result.RowsAffected()
	if err == nil && rows == 0 {
		return common.NewError(common.CodeNotFound, "record not found", sql.ErrNoRows)
	}
	return nil
}

func (p *Postgres) Query(ctx context.Context, collection string, filters []Filter, orderBy *Order) ([]map[string]any, error) {
	predicate := make(map[string]any, len(filters))
	for _, f := range filters {
		predicate[f.Field] = f.Value
	}
	encoded, err := json.Marshal(predicate)
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to encode query", err)
	}
	query := `SELECT data FROM documents WHERE collection = $1 AND data @> $2::jsonb`
	if orderBy != nil {
		if !validOrderField(orderBy.Field) {
			return nil, common.NewError(common.CodeValidation, "invalid order field", nil)
		}
		direction := "ASC"
		if orderBy.Desc {
			direction = "DESC"
		}
		query += fmt.Sprintf(` ORDER BY data->>'%s' %s`, orderBy.Field, direction)
	}
	rows, err := p.db.QueryContext(ctx, query, collection, encoded)
	if err != nil {
		return nil, common.NewError(common.CodeUnavailable, "store query failed", err)
	}
	defer rows.Close()
	var results []map[string]any
	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			return nil, common.NewError(common.CodeUnavailable, "store query scan failed", err)
		}
		var doc map[string]any
		if err := json.Unmarshal(raw, &doc); err != nil {
			continue
		}
		results = append(results, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, common.NewError(common.CodeUnavailable, "store query failed", err)
	}
	// Text ordering of jsonb values is close enough for pagination but the
	// time-aware comparison keeps mixed-precision timestamps correct.
	SortDocs(results, orderBy)
	return results, nil
}

func validOrderField(field string) bool {
	if field == "" {
		return false
	}
	return !strings.ContainsAny(field, `'" ;`)
}
