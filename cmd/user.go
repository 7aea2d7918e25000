package cmd

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/frahmantamala/budgetwise/internal/auth"
	"github.com/frahmantamala/budgetwise/internal/user"
	userPostgres "github.com/frahmantamala/budgetwise/internal/user/postgres"
	"github.com/frahmantamala/budgetwise/pkg/logger"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var userCmd = &cobra.Command{
	Use:   "user",
	Short: "User management commands",
}

var createUserCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a user account",
	Long:  `Create a user account. The password is prompted for when --password is omitted.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return createUser(cmd.Context(), cmd.InOrStdin(), cmd.OutOrStdout())
	},
}

var (
	newUsername string
	newEmail    string
	newPassword string
	newDemo     bool
	newAdmin    bool
)

func createUser(ctx context.Context, stdin io.Reader, stdout io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}

	password := newPassword
	if password == "" {
		fmt.Fprint(stdout, "Password: ")
		var err error
		password, err = readPassword(stdin)
		if err != nil {
			return fmt.Errorf("failed to read password: %w", err)
		}
		fmt.Fprintln(stdout)
	}

	dto := auth.RegisterDTO{Username: newUsername, Email: newEmail, Password: password}
	if err := dto.Validate(); err != nil {
		return err
	}

	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}
	db, err := initDB(cfg.Database)
	if err != nil {
		return err
	}

	hash, err := auth.HashPassword(dto.Password, cfg.Security.BCryptCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	users := user.NewService(userPostgres.NewUserRepository(db), logger.L())
	u, err := users.Create(ctx, dto.Username, dto.Email, hash, newDemo)
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	if newAdmin {
		if err := users.SetAdmin(ctx, u.ID, true); err != nil {
			return fmt.Errorf("failed to grant admin: %w", err)
		}
	}

	fmt.Fprintf(stdout, "User %s created successfully with ID %d\n", u.Username, u.ID)
	return nil
}

func readPassword(stdin io.Reader) (string, error) {
	if f, ok := stdin.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		raw, err := term.ReadPassword(int(f.Fd()))
		if err != nil {
			return "", err
		}
		return string(raw), nil
	}

	// piped input
	scanner := bufio.NewScanner(stdin)
	if scanner.Scan() {
		return strings.TrimRight(scanner.Text(), "\r"), nil
	}
	if err := scanner.Err(); err != nil {
		return "", err
	}
	return "", io.EOF
}

func init() {
	createUserCmd.Flags().StringVarP(&newUsername, "username", "u", "", "Username")
	createUserCmd.Flags().StringVarP(&newEmail, "email", "e", "", "Email address")
	createUserCmd.Flags().StringVarP(&newPassword, "password", "p", "", "Password (prompted when omitted)")
	createUserCmd.Flags().BoolVar(&newDemo, "demo", false, "Mark the account as a demo user")
	createUserCmd.Flags().BoolVar(&newAdmin, "admin", false, "Allow the account to run administrative operations")
	_ = createUserCmd.MarkFlagRequired("username")
	_ = createUserCmd.MarkFlagRequired("email")

	userCmd.AddCommand(createUserCmd)
	rootCmd.AddCommand(userCmd)
}
