package cli

import (
	"context"
	"fmt"

	"spectres-crm/internal/models"

	"github.com/spf13/cobra"
)

var usersCmd = &cobra.Command{
	Use:   "users",
	Short: "Manage CRM accounts",
}

var usersCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create an account (bootstrap the first admin with --role admin)",
	RunE: func(cmd *cobra.Command, args []string) error {
		email, _ := cmd.Flags().GetString("email")
		name, _ := cmd.Flags().GetString("name")
		role, _ := cmd.Flags().GetString("role")
		password, _ := cmd.Flags().GetString("password")

		user, err := appInstance.Users.Register(context.Background(), &models.CreateUserRequest{
			Email:    email,
			FullName: name,
			Password: password,
			Role:     role,
		})
		if err != nil {
			return fmt.Errorf("failed to create user: %w", err)
		}

		fmt.Printf("Created %s (%s) with role %s\n", user.Email, user.ID, user.Role)
		return nil
	},
}

var usersListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all accounts",
	RunE: func(cmd *cobra.Command, args []string) error {
		users, err := appInstance.UserRepo.List(context.Background())
		if err != nil {
			return fmt.Errorf("failed to list users: %w", err)
		}
		if len(users) == 0 {
			fmt.Println("No users found")
			return nil
		}

		fmt.Printf("%-36s %-30s %-16s %-8s\n", "ID", "Email", "Role", "Active")
		fmt.Println("------------------------------------------------------------------------------------------")
		for _, u := range users {
			fmt.Printf("%-36s %-30s %-16s %-8t\n", u.ID, u.Email, u.Role, u.IsActive)
		}
		fmt.Printf("\nTotal: %d user(s)\n", len(users))
		return nil
	},
}

func init() {
	usersCreateCmd.Flags().String("email", "", "login email")
	usersCreateCmd.Flags().String("name", "", "full name")
	usersCreateCmd.Flags().String("role", "pracownik", "role: admin, szef, manager, project_manager, junior_manager, pracownik")
	usersCreateCmd.Flags().String("password", "", "initial password (min 8 characters)")
	usersCreateCmd.MarkFlagRequired("email")
	usersCreateCmd.MarkFlagRequired("name")
	usersCreateCmd.MarkFlagRequired("password")

	usersCmd.AddCommand(usersCreateCmd)
	usersCmd.AddCommand(usersListCmd)
}
