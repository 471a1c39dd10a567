package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"altheia/internal/models"
	"altheia/internal/policy"
)

var (
	headingStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39"))
	labelStyle   = lipgloss.NewStyle().Width(14).Foreground(lipgloss.Color("245"))
	successStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("42"))
)

func newRolesCmd() *cobra.Command {
	var only string

	cmd := &cobra.Command{
		Use:   "roles",
		Short: "Print the role table: permissions, pages and menu",
		RunE: func(cmd *cobra.Command, _ []string) error {
			roles := models.Roles
			if only != "" {
				role := models.UserRole(only)
				if !role.Valid() {
					return fmt.Errorf("unknown role %q", only)
				}
				roles = []models.UserRole{role}
			}

			out := cmd.OutOrStdout()
			for i, role := range roles {
				if i > 0 {
					fmt.Fprintln(out)
				}
				fmt.Fprintln(out, headingStyle.Render(policy.RoleName(role))+" ("+string(role)+")")

				perms := policy.Default.Permissions(role)
				keys := make([]string, 0, len(perms))
				for _, p := range perms {
					keys = append(keys, p.Key())
				}
				fmt.Fprintln(out, labelStyle.Render("permissions")+strings.Join(keys, ", "))

				labels := make([]string, 0)
				for _, item := range policy.Default.VisibleNavigationItems(role) {
					labels = append(labels, item.Label+" "+item.Route)
				}
				fmt.Fprintln(out, labelStyle.Render("menu")+strings.Join(labels, " | "))
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&only, "role", "", "show a single role")
	return cmd
}
