package main

import (
	"fmt"
	"net/http"
	"os"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
	"github.com/sapcc/go-bits/httpapi"
	"github.com/sapcc/go-bits/logg"

	"github.com/ivcompat/ivcompat/internal/api"
	"github.com/ivcompat/ivcompat/internal/ivconfig"
	"github.com/ivcompat/ivcompat/internal/store"
)

func main() {
	if len(os.Args) != 2 {
		fmt.Fprintf(os.Stderr, "Usage: %s <config-file>\n", os.Args[0])
		os.Exit(1)
	}

	cfg, err := ivconfig.Load(os.Args[1])
	if err != nil {
		logg.Fatal(err.Error())
	}

	dbMap, err := store.Connect(cfg.DSN())
	if err != nil {
		logg.Fatal(err.Error())
	}

	loader := store.PostgresLoader{DB: dbMap}
	handler := httpapi.Compose(
		api.NewV1API(loader),
		httpapi.WithoutLogging(),
	)

	handler = logg.Middleware{}.Wrap(handler)
	handler = cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"HEAD", "GET"},
	}).Handler(handler)

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.Handle("/", handler)

	logg.Info("listening on " + cfg.ListenOn)
	logg.Fatal(http.ListenAndServe(cfg.ListenOn, mux).Error())
}
