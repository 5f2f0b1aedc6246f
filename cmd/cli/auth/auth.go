package auth

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"strings"

	"github.com/crucial707/blogfeed/cmd/cli/client"
	"github.com/crucial707/blogfeed/cmd/cli/config"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// readPassword is swapped in tests.
var (
	termReadPassword = term.ReadPassword
	readPassword     = termReadPassword
)

// InitAuth registers register, login and logout on the root command.
func InitAuth(rootCmd *cobra.Command) {
	rootCmd.AddCommand(registerCmd(), loginCmd(), logoutCmd())
}

// promptPassword reads a password without echo when none was given by flag.
func promptPassword(current string) (string, error) {
	if current != "" {
		return current, nil
	}
	fmt.Fprint(os.Stderr, "Password: ")
	b, err := readPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}
	pw := strings.TrimSpace(string(b))
	if pw == "" {
		return "", fmt.Errorf("password is required")
	}
	return pw, nil
}

// ==========================
// Register
// ==========================
func registerCmd() *cobra.Command {
	var username, email, password, role string
	var tags []string

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account",
		RunE: func(cmd *cobra.Command, args []string) error {
			if username == "" || email == "" {
				return fmt.Errorf("--username and --email are required")
			}
			pw, err := promptPassword(password)
			if err != nil {
				return err
			}
			payload := map[string]interface{}{
				"username": username,
				"email":    email,
				"password": pw,
				"tags":     tags,
			}
			if role != "" {
				payload["role"] = role
			}
			var out struct {
				ID string `json:"id"`
			}
			if _, err := client.New().Do(cmd.Context(), "POST", "/users/register", payload, &out); err != nil {
				return fmt.Errorf("register: %w", err)
			}
			fmt.Printf("User registered (id %s). You can now log in.\n", out.ID)
			return nil
		},
	}
	cmd.Flags().StringVar(&username, "username", "", "username")
	cmd.Flags().StringVar(&email, "email", "", "email address")
	cmd.Flags().StringVar(&password, "password", "", "password (prompted when omitted)")
	cmd.Flags().StringVar(&role, "role", "", "role: user or admin")
	cmd.Flags().StringSliceVar(&tags, "tags", nil, "interest tags, comma-separated")
	return cmd
}

// ==========================
// Login
// ==========================
func loginCmd() *cobra.Command {
	var username, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in and store the access token locally",
		RunE: func(cmd *cobra.Command, args []string) error {
			if username == "" {
				return fmt.Errorf("--username is required")
			}
			pw, err := promptPassword(password)
			if err != nil {
				return err
			}
			token, err := Login(cmd.Context(), client.New(), username, pw)
			if err != nil {
				return err
			}
			if err := config.SaveToken(token); err != nil {
				return fmt.Errorf("save token: %w", err)
			}
			fmt.Println("Login successful. Token stored in", config.TokenPath())
			return nil
		},
	}
	cmd.Flags().StringVar(&username, "username", "", "username")
	cmd.Flags().StringVar(&password, "password", "", "password (prompted when omitted)")
	return cmd
}

// Login exchanges credentials for an access token using the form-encoded login.
func Login(ctx context.Context, c *client.Client, username, password string) (string, error) {
	var out struct {
		AccessToken string `json:"access_token"`
	}
	form := url.Values{"username": {username}, "password": {password}}
	if err := c.PostForm(ctx, "/users/login", form, &out); err != nil {
		return "", fmt.Errorf("login: %w", err)
	}
	if out.AccessToken == "" {
		return "", fmt.Errorf("login succeeded but no token returned")
	}
	return out.AccessToken, nil
}

// ==========================
// Logout
// ==========================
func logoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Remove the locally stored token",
		RunE: func(cmd *cobra.Command, args []string) error {
			removed, err := config.RemoveToken()
			if err != nil {
				return err
			}
			if !removed {
				fmt.Println("No user logged in.")
				return nil
			}
			fmt.Println("Logged out successfully.")
			return nil
		},
	}
}
