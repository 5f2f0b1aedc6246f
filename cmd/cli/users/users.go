package users

import (
	"fmt"
	"time"

	"github.com/crucial707/blogfeed/cmd/cli/client"
	"github.com/crucial707/blogfeed/cmd/cli/output"
	"github.com/spf13/cobra"
)

// profile mirrors the API's user representation.
type profile struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	Tags      []string  `json:"tags"`
	CreatedAt time.Time `json:"created_at"`
}

// ==========================
// CLI Command Init
// ==========================
func InitUsers(rootCmd *cobra.Command) {
	profileCmd := &cobra.Command{
		Use:   "profile",
		Short: "Show or update your profile",
	}
	profileCmd.AddCommand(showProfileCmd(), updateProfileCmd())

	tagsCmd := &cobra.Command{
		Use:   "tags",
		Short: "Manage your interest tags",
	}
	tagsCmd.AddCommand(addTagsCmd(), removeTagsCmd())

	roleCmd := &cobra.Command{
		Use:   "role",
		Short: "Manage user roles (admin only)",
	}
	roleCmd.AddCommand(setRoleCmd())

	rootCmd.AddCommand(profileCmd, tagsCmd, roleCmd, auditCmd())
}

func renderProfile(p profile, asJSON bool) error {
	if asJSON {
		return output.PrintJSON(p)
	}
	output.RenderKV([][2]string{
		{"ID", p.ID},
		{"Username", p.Username},
		{"Email", p.Email},
		{"Role", p.Role},
		{"Tags", output.Tags(p.Tags)},
		{"Created", p.CreatedAt.Format(time.RFC3339)},
	})
	return nil
}

// ==========================
// Profile
// ==========================
func showProfileCmd() *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show your profile",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := client.Authenticated()
			if err != nil {
				return err
			}
			var p profile
			if _, err := c.Do(cmd.Context(), "GET", "/users/profile", nil, &p); err != nil {
				return err
			}
			return renderProfile(p, asJSON)
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print raw JSON")
	return cmd
}

func updateProfileCmd() *cobra.Command {
	var username, email, password string
	var tags []string

	cmd := &cobra.Command{
		Use:   "update",
		Short: "Update username, email, password or tags",
		RunE: func(cmd *cobra.Command, args []string) error {
			payload := map[string]interface{}{}
			if cmd.Flags().Changed("username") {
				payload["username"] = username
			}
			if cmd.Flags().Changed("email") {
				payload["email"] = email
			}
			if cmd.Flags().Changed("password") {
				payload["password"] = password
			}
			if cmd.Flags().Changed("tags") {
				payload["tags"] = tags
			}
			if len(payload) == 0 {
				return fmt.Errorf("nothing to update: pass at least one of --username, --email, --password, --tags")
			}
			c, err := client.Authenticated()
			if err != nil {
				return err
			}
			var p profile
			if _, err := c.Do(cmd.Context(), "PATCH", "/users/profile", payload, &p); err != nil {
				return err
			}
			return renderProfile(p, false)
		},
	}
	cmd.Flags().StringVar(&username, "username", "", "new username")
	cmd.Flags().StringVar(&email, "email", "", "new email")
	cmd.Flags().StringVar(&password, "password", "", "new password")
	cmd.Flags().StringSliceVar(&tags, "tags", nil, "replace all tags (comma-separated)")
	return cmd
}

// ==========================
// Tags
// ==========================
func addTagsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "add TAG...",
		Short: "Add interest tags",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := client.Authenticated()
			if err != nil {
				return err
			}
			var out struct {
				Message string `json:"message"`
			}
			if _, err := c.Do(cmd.Context(), "POST", "/users/tags", args, &out); err != nil {
				return err
			}
			fmt.Println(out.Message)
			return nil
		},
	}
}

func removeTagsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remove TAG...",
		Short: "Remove interest tags",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := client.Authenticated()
			if err != nil {
				return err
			}
			var out struct {
				Message string `json:"message"`
			}
			if _, err := c.Do(cmd.Context(), "DELETE", "/users/tags", args, &out); err != nil {
				return err
			}
			fmt.Println(out.Message)
			return nil
		},
	}
}

// ==========================
// Role
// ==========================
func setRoleCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set USER_ID ROLE",
		Short: "Set another user's role (user or admin)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := client.Authenticated()
			if err != nil {
				return err
			}
			var out struct {
				Message string `json:"message"`
			}
			if _, err := c.Do(cmd.Context(), "PATCH", "/users/role/"+args[0], map[string]string{"role": args[1]}, &out); err != nil {
				return err
			}
			fmt.Println(out.Message)
			return nil
		},
	}
}

// ==========================
// Audit
// ==========================
type auditEntry struct {
	ActorID      string    `json:"actor_id"`
	Action       string    `json:"action"`
	ResourceType string    `json:"resource_type"`
	ResourceID   string    `json:"resource_id"`
	Details      string    `json:"details"`
	CreatedAt    time.Time `json:"created_at"`
}

func auditCmd() *cobra.Command {
	var limit, offset int
	cmd := &cobra.Command{
		Use:   "audit",
		Short: "Show recent privileged actions (admin only)",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := client.Authenticated()
			if err != nil {
				return err
			}
			var entries []auditEntry
			path := fmt.Sprintf("/audit?limit=%d&offset=%d", limit, offset)
			if _, err := c.Do(cmd.Context(), "GET", path, nil, &entries); err != nil {
				return err
			}
			rows := make([][]interface{}, 0, len(entries))
			for _, e := range entries {
				rows = append(rows, []interface{}{
					e.CreatedAt.Format(time.RFC3339), e.ActorID, e.Action,
					e.ResourceType + "/" + e.ResourceID, e.Details,
				})
			}
			output.RenderTable([]string{"When", "Actor", "Action", "Resource", "Details"}, rows)
			return nil
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 50, "entries to show (max 200)")
	cmd.Flags().IntVar(&offset, "offset", 0, "entries to skip")
	return cmd
}
