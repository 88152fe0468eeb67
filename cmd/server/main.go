package main

import (
	"context"
	"log"
	"net/http"
	"time"

	api "github.com/sarikapunglia/Dronacharya/internal/api/http"
	"github.com/sarikapunglia/Dronacharya/internal/config"
	"github.com/sarikapunglia/Dronacharya/internal/db"
	"github.com/sarikapunglia/Dronacharya/internal/quiz"
)

func main() {
	cfg := config.FromEnv()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	dbh, err := db.Open(ctx, db.Driver(cfg.DBDriver), cfg.DBDSN)
	if err != nil {
		log.Fatalf("db open failed: %v", err)
	}
	store := quiz.NewSQLStore(dbh, db.Driver(cfg.DBDriver))
	defer store.Close()

	r := api.NewRouter(store, cfg.CORSOrigins)

	log.Printf("listening on %s (db=%s)", cfg.HTTPAddr, cfg.DBDriver)
	log.Fatal(http.ListenAndServe(cfg.HTTPAddr, r))
}
