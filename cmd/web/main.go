package main

import (
	"context"
	"log"

	"github.com/micromarket/storefront/internal/app/web"
)

func main() {
	if err := web.Run(context.Background()); err != nil {
		log.Fatalf("storefront failed: %v", err)
	}
}
