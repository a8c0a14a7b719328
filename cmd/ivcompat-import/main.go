package main

import (
	"context"
	"fmt"
	"os"

	"github.com/sapcc/go-bits/logg"

	"github.com/ivcompat/ivcompat/internal/importer"
	"github.com/ivcompat/ivcompat/internal/ivconfig"
	"github.com/ivcompat/ivcompat/internal/store"
)

func main() {
	if len(os.Args) != 3 {
		fmt.Fprintf(os.Stderr, "Usage: %s <config-file> <catalogue.csv>\n", os.Args[0])
		os.Exit(1)
	}
	configPath, csvPath := os.Args[1], os.Args[2]

	cfg, err := ivconfig.Load(configPath)
	if err != nil {
		logg.Fatal(err.Error())
	}

	f, err := os.Open(csvPath)
	if err != nil {
		logg.Fatal(err.Error())
	}
	defer f.Close()

	entries, err := importer.Parse(f)
	if err != nil {
		logg.Fatal("parse %s: %s", csvPath, err.Error())
	}

	dbMap, err := store.Connect(cfg.DSN())
	if err != nil {
		logg.Fatal(err.Error())
	}

	err = importer.Import(context.Background(), dbMap, entries)
	if err != nil {
		logg.Fatal("import %s: %s", csvPath, err.Error())
	}

	logg.Info("imported %d infusions from %s", len(entries), csvPath)
}
