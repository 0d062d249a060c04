package main

import (
	"log"

	"github.com/MrSnakeDoc/gemshub/internal/app"
)

func main() {
	a, err := app.New()
	if err != nil {
		log.Fatalf("❌ gemshub failed to initialize: %v", err)
	}
	if err := a.Run(); err != nil {
		log.Fatalf("❌ gemshub stopped with error: %v", err)
	}
}
