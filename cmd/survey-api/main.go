package main

import (
	"flag"

	"butterfly-survey/internal/api"
	"butterfly-survey/internal/api/handler"
	"butterfly-survey/internal/store"
	"butterfly-survey/pkg/router"
	"butterfly-survey/pkg/utils"

	_ "butterfly-survey/docs"
)

// @title Butterfly Survey API
// @version 1.0
// @description API for running butterfly field-survey report pipelines and fetching their artifacts.
// @host localhost:8080
// @BasePath /api/v1
func main() {
	addr := flag.String("addr", ":8080", "listen address")
	dbPath := flag.String("db", "survey.db", "path to the run store database")
	outDir := flag.String("out", "output", "base directory for run artifacts")
	flag.Parse()

	// Init DB
	if err := store.InitDB(*dbPath); err != nil {
		panic(err)
	}
	defer store.CloseDB()

	handler.SetOutputManager(utils.NewOutputManager(*outDir))

	// Create router
	r := router.New()

	// Register API routes
	api.RegisterRoutes(r)

	// Start server
	r.Start(*addr)
}
