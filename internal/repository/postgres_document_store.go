package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
)

// documentStore はdocumentsテーブルをコレクション単位のドキュメントストアとして扱う。
// dataはJSONBで、Firestoreのドキュメント本体と同じ形で保存する。
type documentStore struct {
	db *sql.DB
}

// get はドキュメントを取得してvにデコードする。見つからない場合はfalseを返す。
func (s documentStore) get(ctx context.Context, collection, id string, v any) (bool, error) {
	var data []byte
	err := s.db.QueryRowContext(ctx,
		`SELECT data FROM documents WHERE collection = $1 AND id = $2`,
		collection, id,
	).Scan(&data)

	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to find %s document: %w", collection, err)
	}

	if err := json.Unmarshal(data, v); err != nil {
		return false, fmt.Errorf("failed to decode %s document: %w", collection, err)
	}
	return true, nil
}

// insert はドキュメントを作成する。同じキーが既にある場合はErrAlreadyExistsを返す。
func (s documentStore) insert(ctx context.Context, collection, id string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode %s document: %w", collection, err)
	}

	result, err := s.db.ExecContext(ctx,
		`INSERT INTO documents (collection, id, data, created_at, updated_at)
		 VALUES ($1, $2, $3::jsonb, now(), now())
		 ON CONFLICT (collection, id) DO NOTHING`,
		collection, id, string(data),
	)
	if err != nil {
		return fmt.Errorf("failed to insert %s document: %w", collection, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrAlreadyExists
	}
	return nil
}

// merge はトップレベルのキー単位でdataに上書きマージする。
// ドキュメントが無い場合はErrNotFoundを返す。
func (s documentStore) merge(ctx context.Context, collection, id string, fields map[string]any) error {
	patch, err := json.Marshal(fields)
	if err != nil {
		return fmt.Errorf("failed to encode %s patch: %w", collection, err)
	}

	result, err := s.db.ExecContext(ctx,
		`UPDATE documents SET data = data || $3::jsonb, updated_at = now()
		 WHERE collection = $1 AND id = $2`,
		collection, id, string(patch),
	)
	if err != nil {
		return fmt.Errorf("failed to update %s document: %w", collection, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// rawDocument はlistで返すキーと生データの組。
type rawDocument struct {
	ID   string
	Data map[string]any
}

// list はコレクションの全ドキュメントをキー順で返す。
func (s documentStore) list(ctx context.Context, collection string) ([]rawDocument, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, data FROM documents WHERE collection = $1 ORDER BY id`,
		collection,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", collection, err)
	}
	defer rows.Close()

	docs := []rawDocument{}
	for rows.Next() {
		var (
			id   string
			data []byte
		)
		if err := rows.Scan(&id, &data); err != nil {
			return nil, fmt.Errorf("failed to scan %s row: %w", collection, err)
		}
		attrs := map[string]any{}
		if err := json.Unmarshal(data, &attrs); err != nil {
			return nil, fmt.Errorf("failed to decode %s document %s: %w", collection, id, err)
		}
		docs = append(docs, rawDocument{ID: id, Data: attrs})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return docs, nil
}
