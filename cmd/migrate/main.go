package main

import (
	"fmt"
	"log"
	"os"

	flag "github.com/spf13/pflag"

	"academyscope/internal/config"
	"academyscope/internal/storage"
	"academyscope/migrations"
)

func main() {
	dbPath := flag.String("db", envOrDefault("DATABASE_PATH", config.DefaultDatabasePath), "path to the placement database")
	flag.Parse()

	args := flag.Args()
	if len(args) == 0 {
		fmt.Fprintln(os.Stderr, "Usage: migrate [--db path] <command>")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Commands:")
		for _, c := range migrations.Commands {
			fmt.Fprintf(os.Stderr, "  %-11s %s\n", c[0], c[1])
		}
		os.Exit(1)
	}

	store, err := storage.NewSQLite(*dbPath, storage.Writable())
	if err != nil {
		log.Fatalf("open database: %v", err)
	}
	defer func() { _ = store.Close() }()

	if err := migrations.Apply(store.DB(), args[0]); err != nil {
		log.Fatal(err)
	}
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
