package db

import (
	"encoding/json"
	"fmt"

	"naikai-shop/internal/xpkg/tablestore"
)

// toRow flattens a tagged row struct into a table row.
func toRow(v any) (tablestore.Row, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode row: %w", err)
	}
	row := tablestore.Row{}
	if err := json.Unmarshal(data, &row); err != nil {
		return nil, fmt.Errorf("encode row: %w", err)
	}
	return row, nil
}

// fromRows decodes table rows into tagged row structs.
func fromRows[T any](rows []tablestore.Row) ([]T, error) {
	out := make([]T, 0, len(rows))
	for _, r := range rows {
		data, err := json.Marshal(r)
		if err != nil {
			return nil, fmt.Errorf("decode row: %w", err)
		}
		var v T
		if err := json.Unmarshal(data, &v); err != nil {
			return nil, fmt.Errorf("decode row: %w", err)
		}
		out = append(out, v)
	}
	return out, nil
}
