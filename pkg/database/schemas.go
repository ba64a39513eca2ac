package database

import (
	"context"
	"database/sql"
	"fmt"
)

// InternalSchema is never dumped, independent of the pattern list.
const InternalSchema = "information_schema"

// ListDatabases retrieves every database name the server reports, in server
// order. All filtering, including the InternalSchema exclusion, is the
// caller's concern.
func ListDatabases(ctx context.Context, dbconn Connection) ([]string, error) {
	db, err := sql.Open("mysql", dbconn.MySQL())
	if err != nil {
		return nil, fmt.Errorf("failed to open connection to database: %v", err)
	}
	defer db.Close()

	rows, err := db.QueryContext(ctx, "show databases")
	if err != nil {
		return nil, fmt.Errorf("could not list databases: %v", err)
	}
	defer rows.Close()

	names := []string{}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("error getting database name: %v", err)
		}
		names = append(names, name)
	}
	return names, rows.Err()
}
