package main

import (
	"context"
	"database/sql"
	"flag"
	"log"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
	"github.com/pressly/goose/v3"

	database "kursusku_backend/internals/databases"
)

func main() {
	command := flag.String("command", "up", "migration command (up|down|status|version)")
	dir := flag.String("dir", "migrations", "directory holding the migration files")
	target := flag.Int64("target", 0, "target version for down (0 rolls back one step)")
	timeout := flag.Duration("timeout", time.Minute, "command timeout")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Println("⚠️ No .env file found, falling back to system ENV")
	}

	db, err := sql.Open("pgx", database.MigrateDSN())
	if err != nil {
		log.Fatalf("❌ open database: %v", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		log.Fatalf("❌ ping database: %v", err)
	}

	if err := goose.SetDialect("postgres"); err != nil {
		log.Fatalf("❌ configure goose: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	switch *command {
	case "up":
		err = goose.UpContext(ctx, db, *dir)
	case "down":
		if *target > 0 {
			err = goose.DownToContext(ctx, db, *dir, *target)
		} else {
			err = goose.DownContext(ctx, db, *dir)
		}
	case "status":
		err = goose.Status(db, *dir)
	case "version":
		err = goose.Version(db, *dir)
	default:
		log.Fatalf("❌ unknown command %q (want up|down|status|version)", *command)
	}
	if err != nil {
		log.Fatalf("❌ migrate %s: %v", *command, err)
	}
	log.Printf("✅ migrate %s done", *command)
}
