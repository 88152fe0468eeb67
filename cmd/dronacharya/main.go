package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/sarikapunglia/Dronacharya/internal/cli"
	"github.com/sarikapunglia/Dronacharya/internal/config"
	"github.com/sarikapunglia/Dronacharya/internal/genai"
	"github.com/sarikapunglia/Dronacharya/internal/quiz"
	"github.com/sarikapunglia/Dronacharya/internal/session"
)

func main() {
	cfg := config.FromEnv()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	store, err := quiz.ResolveStore(ctx, cfg)
	cancel()
	if err != nil {
		log.Fatalf("storage init failed: %v", err)
	}
	defer store.Close()

	svc := genai.NewClient(cfg.GenAIBaseURL, cfg.GenAIAPIKey, cfg.GenAIModel, cfg.GenAITimeout)
	ctrl := session.New(store, svc)

	log.Printf("platform=%s", cfg.Platform)
	if err := cli.Run(context.Background(), os.Stdin, os.Stdout, ctrl); err != nil {
		log.Fatalf("session ended with error: %v", err)
	}
}
