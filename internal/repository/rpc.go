package repository

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"
)

// executeSQLProcedure is the generic SQL-execution procedure the backend
// exposes; it runs its argument with elevated privileges and returns rows
// shaped (result jsonb).
const executeSQLProcedure = "select result from public.execute_sql($1) as t(result)"

// RPCClient invokes the backend's generic SQL-execution procedure. It is the
// production implementation of ingest.SQLExecutor.
type RPCClient struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

func NewRPCClient(pool *pgxpool.Pool, logger *slog.Logger) *RPCClient {
	if logger == nil {
		logger = slog.Default()
	}
	return &RPCClient{pool: pool, logger: logger}
}

// ExecuteSQL runs the remote procedure with sqlQuery as its sole argument
// and collects the result column of every returned row. The connection is
// borrowed from the pool for exactly this round-trip.
func (c *RPCClient) ExecuteSQL(ctx context.Context, sqlQuery string) ([]json.RawMessage, error) {
	rows, err := c.pool.Query(ctx, executeSQLProcedure, sqlQuery)
	if err != nil {
		c.logger.Error("repository.execute_sql.failed", "error", err)
		return nil, err
	}
	defer rows.Close()

	var results []json.RawMessage
	for rows.Next() {
		var result json.RawMessage
		if err := rows.Scan(&result); err != nil {
			return nil, err
		}
		results = append(results, result)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return results, nil
}
