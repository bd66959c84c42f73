package tablestore

import (
	"context"
	_ "embed"
	"fmt"
)

//go:embed schema.sql
var schema string

// Schema returns the SQL that provisions every table the shop reads and writes.
func Schema() string {
	return schema
}

// Provision creates any missing tables. Existing tables are left untouched.
func (p *PostgresStore) Provision(ctx context.Context) error {
	if _, err := p.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("provision schema: %w", err)
	}
	p.mylog.Action("schema_provisioned").Info("Tables provisioned")
	return nil
}
