package main

import (
	"log"

	"github.com/aussiebroadwan/inclusive/internal/mockapi"
)

func main() {
	cfg := mockapi.LoadConfig()

	application, err := mockapi.New(cfg)
	if err != nil {
		log.Fatalf("failed to initialize application: %v", err)
	}

	if err := application.Run(); err != nil {
		log.Fatalf("application error: %v", err)
	}
}
