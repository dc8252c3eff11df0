// cmd/hashpassword/main.go

// Command hashpassword prints the bcrypt hash to use as ADMIN_PASSWORD_HASH.
package main

import (
	"fmt"
	"log"
	"os"

	"github.com/shopvn/storefront/internal/config"
	"github.com/shopvn/storefront/internal/pkg/auth"
)

func main() {
	if len(os.Args) < 2 {
		log.Fatal("Usage: go run ./cmd/hashpassword <password>")
	}

	password := os.Args[1]

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration:", err)
	}

	passwords := auth.NewPasswordManager(cfg)
	hash, err := passwords.HashPassword(password)
	if err != nil {
		log.Fatal("Error generating hash:", err)
	}

	if err := passwords.VerifyPassword(password, hash); err != nil {
		log.Fatal("Hash verification failed:", err)
	}

	fmt.Printf("ADMIN_PASSWORD_HASH=%s\n", hash)
	fmt.Println("✅ Hash verified successfully!")
}
