// Package migrations embeds the schema for each supported SQL dialect.
package migrations

import (
	"embed"
	"fmt"
)

//go:embed *.sql
var files embed.FS

// Schema returns the DDL for the given sqlx driver name.
func Schema(driver string) (string, error) {
	var name string
	switch driver {
	case "postgres":
		name = "postgres.sql"
	case "sqlite3":
		name = "sqlite.sql"
	default:
		return "", fmt.Errorf("no schema for driver %q", driver)
	}

	b, err := files.ReadFile(name)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
