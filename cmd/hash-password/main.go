package main

import (
	"fmt"
	"os"
	"syscall"

	"golang.org/x/crypto/bcrypt"
	"golang.org/x/term"
)

// Generates the bcrypt hash expected in ADMIN_PASSWORD_HASH.
func main() {
	fmt.Print("Enter admin password: ")
	bytePassword, err := term.ReadPassword(int(syscall.Stdin))
	if err != nil {
		fmt.Println("\nError reading password")
		os.Exit(1)
	}
	fmt.Println()

	password := string(bytePassword)
	if len(password) < 8 {
		fmt.Println("Error: Password must be at least 8 characters")
		os.Exit(1)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		fmt.Printf("Error hashing password: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("\nAdd this to your environment:")
	fmt.Printf("ADMIN_PASSWORD_HASH=%s\n", string(hash))
}
