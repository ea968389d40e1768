// Command passtool hashes a password read from the terminal and
// optionally bootstraps a password-login user document.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"syscall"

	"adventshare/dbtypes"

	"cloud.google.com/go/firestore"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/term"
)

var (
	dataProject = flag.String("data-project", "", "GCP project that contains the application state.  Empty just prints the hash.")
	email       = flag.String("email", "", "Email of the user document to create.")
	displayName = flag.String("display-name", "", "Display name of the user document to create.")
)

func do(ctx context.Context) error {
	fmt.Print("Password: ")
	pass, err := term.ReadPassword(int(syscall.Stdin))
	if err != nil {
		return fmt.Errorf("while reading password: %w", err)
	}
	fmt.Println()

	hash, err := bcrypt.GenerateFromPassword(pass, 0)
	if err != nil {
		return fmt.Errorf("while hashing password: %w", err)
	}

	if *dataProject == "" {
		fmt.Println(string(hash))
		return nil
	}

	if *email == "" {
		return fmt.Errorf("-email is required when -data-project is set")
	}

	fstore, err := firestore.NewClient(ctx, *dataProject)
	if err != nil {
		return fmt.Errorf("while creating FireStore client: %w", err)
	}
	defer fstore.Close()

	userRef := fstore.Collection("users").NewDoc()
	_, err = userRef.Create(ctx, &dbtypes.User{
		UID:          userRef.ID,
		Email:        *email,
		DisplayName:  *displayName,
		PasswordHash: string(hash),
	})
	if err != nil {
		return fmt.Errorf("while creating user document: %w", err)
	}

	fmt.Printf("Created user %s\n", userRef.ID)
	return nil
}

func main() {
	flag.Parse()

	if err := do(context.Background()); err != nil {
		log.Printf("Error: %v", err)
		os.Exit(1)
	}
}
