package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jackc/pgx/v5"

	"bazario/api/internal/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("load config: %v\n", err)
		os.Exit(1)
	}

	schemaPath := filepath.Join("internal", "database", "schema.sql")
	schema, err := os.ReadFile(schemaPath)
	if err != nil {
		fmt.Printf("read schema file: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()
	conn, err := pgx.Connect(ctx, cfg.Postgres.DSN)
	if err != nil {
		fmt.Printf("connect postgres: %v\n", err)
		os.Exit(1)
	}
	defer conn.Close(ctx)

	if _, err := conn.Exec(ctx, string(schema)); err != nil {
		fmt.Printf("apply schema: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("schema applied")
}
