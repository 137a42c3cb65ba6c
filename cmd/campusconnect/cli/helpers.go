package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/viper"
	"golang.org/x/term"

	"github.com/djahern-max/campusconnect-backend/internal/store"
)

// openStore opens the database configured through flags, config file, or
// CAMPUSCONNECT_* environment variables.
func openStore() (*store.Store, error) {
	driver := viper.GetString("db.driver")
	dsn := viper.GetString("db.dsn")
	return store.Open(driver, dsn)
}

// promptPassword reads a password twice from the terminal without echo.
func promptPassword() (string, error) {
	fmt.Print("Password: ")
	pwBytes, err := term.ReadPassword(int(os.Stdin.Fd()))
	if err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}
	fmt.Println()

	fmt.Print("Confirm password: ")
	confirmBytes, err := term.ReadPassword(int(os.Stdin.Fd()))
	if err != nil {
		return "", fmt.Errorf("read confirmation: %w", err)
	}
	fmt.Println()

	if string(pwBytes) != string(confirmBytes) {
		return "", fmt.Errorf("passwords do not match")
	}
	return string(pwBytes), nil
}

// cmdCtx returns a background context for CLI operations.
func cmdCtx() context.Context {
	return context.Background()
}
