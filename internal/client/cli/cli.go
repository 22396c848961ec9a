// Package cli implements the commands of the authstarter command line client.
package cli

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/iudanet/authstarter/internal/client/api"
	"github.com/iudanet/authstarter/internal/client/iocli"
	"github.com/iudanet/authstarter/internal/client/storage"
)

// PasswordEnv is the environment variable read before any other password source
const PasswordEnv = "AUTHSTARTER_PASSWORD"

// Passwords holds the non-interactive password sources given on the command line
type Passwords struct {
	FromFile string
	FromArgs string
}

type Cli struct {
	io        iocli.IO
	apiClient *api.Client
	store     storage.AuthStorage
	now       func() time.Time
	passwords Passwords
}

func New(io iocli.IO, apiClient *api.Client, store storage.AuthStorage, passwords Passwords) *Cli {
	return &Cli{
		io:        io,
		apiClient: apiClient,
		store:     store,
		passwords: passwords,
		now:       time.Now,
	}
}

// getPassword retrieves the account password from various sources with priority:
// 1. Environment variable AUTHSTARTER_PASSWORD
// 2. File given by --password-file
// 3. Command-line parameter --password
// 4. Interactive prompt (fallback), with confirmation when confirm is set
func (c *Cli) getPassword(prompt string, confirm bool) (string, error) {
	// Priority 1: Environment variable
	if envPassword := os.Getenv(PasswordEnv); envPassword != "" {
		return envPassword, nil
	}

	// Priority 2: File
	if c.passwords.FromFile != "" {
		content, err := os.ReadFile(c.passwords.FromFile)
		if err != nil {
			return "", fmt.Errorf("failed to read password file: %w", err)
		}
		// Убираем trailing newline/whitespace
		password := strings.TrimSpace(string(content))
		if password == "" {
			return "", fmt.Errorf("password file is empty")
		}
		return password, nil
	}

	// Priority 3: CLI parameter
	if c.passwords.FromArgs != "" {
		return c.passwords.FromArgs, nil
	}

	// Priority 4: Interactive prompt
	password, err := c.io.ReadPassword(prompt)
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	if password == "" {
		return "", fmt.Errorf("password cannot be empty")
	}

	if confirm {
		again, err := c.io.ReadPassword("Confirm password: ")
		if err != nil {
			return "", fmt.Errorf("failed to read confirmation: %w", err)
		}
		if again != password {
			return "", fmt.Errorf("passwords do not match")
		}
	}

	return password, nil
}

// emailFrom берет email из первого аргумента команды или спрашивает его
func (c *Cli) emailFrom(args []string) (string, error) {
	if len(args) > 0 && strings.TrimSpace(args[0]) != "" {
		return strings.TrimSpace(args[0]), nil
	}

	email, err := c.io.ReadInput("Email: ")
	if err != nil {
		return "", fmt.Errorf("failed to read email: %w", err)
	}
	if email == "" {
		return "", fmt.Errorf("email cannot be empty")
	}
	return email, nil
}

// PrintUsage writes the command reference to io
func PrintUsage(io iocli.IO) {
	io.Println("Authstarter Client")
	io.Println()
	io.Println("Usage:")
	io.Println("  authstarter [OPTIONS] COMMAND [ARGS]")
	io.Println()
	io.Println("Options:")
	io.Println("  --version              Show version information")
	io.Println("  --server URL           Server URL (default: http://localhost:8080)")
	io.Println("  --db PATH              Path to local session database (default: authstarter-client.db)")
	io.Println("  --password PASSWORD    Account password (not recommended, use env var or file)")
	io.Println("  --password-file PATH   Path to file containing the account password")
	io.Println()
	io.Println("Password Priority (highest to lowest):")
	io.Println("  1. " + PasswordEnv + " environment variable")
	io.Println("  2. --password-file (file path)")
	io.Println("  3. --password (command line)")
	io.Println("  4. Interactive prompt (fallback)")
	io.Println()
	io.Println("Commands:")
	io.Println("  register [EMAIL]       Register new user")
	io.Println("  login [EMAIL]          Login and save the access token")
	io.Println("  logout                 Delete the saved session")
	io.Println("  status                 Show the saved session")
	io.Println("  whoami                 Show the user behind the saved token")
	io.Println("  users                  List registered users")
	io.Println("  health                 Show server health")
	io.Println()
	io.Println("Examples:")
	io.Println("  authstarter register ada@example.com")
	io.Println("  authstarter login ada@example.com")
	io.Println("  authstarter whoami")
	io.Println("  authstarter --server https://example.com health")
}

// describe добавляет к ошибке сервера список невалидных полей
func describe(err error) error {
	var apiErr *api.Error
	if !errors.As(err, &apiErr) || len(apiErr.Details) == 0 {
		return err
	}

	var fields strings.Builder
	for _, d := range apiErr.Details {
		fmt.Fprintf(&fields, "\n  %s: %s", d.Field, d.Message)
	}
	return fmt.Errorf("%w%s", err, fields.String())
}
