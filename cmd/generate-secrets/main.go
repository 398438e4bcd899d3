package main

import (
	"fmt"
	"log"

	"github.com/plancare/plansale-backend/internal/utils"
)

func main() {
	accessSecret, refreshSecret, err := utils.GenerateJWTSecrets()
	if err != nil {
		log.Fatalf("Failed to generate secrets: %v", err)
	}

	fmt.Println("Add these to your .env file or secret store:")
	fmt.Println()
	fmt.Printf("JWT_SECRET=%s\n", accessSecret)
	fmt.Printf("JWT_REFRESH_SECRET=%s\n", refreshSecret)
	fmt.Println()
	fmt.Println("Keep these secrets out of version control.")
}
