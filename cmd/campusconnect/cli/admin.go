package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/djahern-max/campusconnect-backend/internal/model"
	"github.com/djahern-max/campusconnect-backend/internal/service"
)

func newAdminCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "admin",
		Short: "Manage admin accounts",
		Long:  "Create, list, and deactivate administrative accounts directly against the database.",
	}

	cmd.AddCommand(newAdminCreateCmd())
	cmd.AddCommand(newAdminListCmd())
	cmd.AddCommand(newAdminDeactivateCmd())

	return cmd
}

// ---------- admin create ----------

func newAdminCreateCmd() *cobra.Command {
	var (
		email      string
		password   string
		entityType string
		entityID   int64
		super      bool
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a new admin account",
		Example: `  campusconnect admin create --email root@example.com --entity-type institution --entity-id 1 --super
  campusconnect admin create --email admin@example.com --entity-type scholarship --entity-id 3  # prompts for password`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAdminCreate(email, password, entityType, entityID, super)
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "Admin email address (required)")
	cmd.Flags().StringVar(&password, "password", "", "Admin password (prompted if omitted)")
	cmd.Flags().StringVar(&entityType, "entity-type", "", "Entity type: institution or scholarship (required)")
	cmd.Flags().Int64Var(&entityID, "entity-id", 0, "Entity id the account manages (required)")
	cmd.Flags().BoolVar(&super, "super", false, "Grant super admin privileges")
	cmd.MarkFlagRequired("email")
	cmd.MarkFlagRequired("entity-type")
	cmd.MarkFlagRequired("entity-id")

	return cmd
}

func runAdminCreate(email, password, entityType string, entityID int64, super bool) error {
	if !strings.Contains(email, "@") {
		return fmt.Errorf("invalid email address: %q", email)
	}
	if entityType != model.EntityInstitution && entityType != model.EntityScholarship {
		return fmt.Errorf("entity-type must be %q or %q", model.EntityInstitution, model.EntityScholarship)
	}
	if entityID <= 0 {
		return fmt.Errorf("entity-id must be positive")
	}

	if password == "" {
		var err error
		password, err = promptPassword()
		if err != nil {
			return err
		}
	}
	if len(password) < 8 {
		return fmt.Errorf("password must be at least 8 characters")
	}

	st, err := openStore()
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer st.Close()

	ctx := cmdCtx()
	if entityType == model.EntityInstitution {
		if _, err := st.GetInstitution(ctx, entityID); err != nil {
			return fmt.Errorf("institution %d: %w", entityID, err)
		}
	} else {
		if _, err := st.GetScholarship(ctx, entityID); err != nil {
			return fmt.Errorf("scholarship %d: %w", entityID, err)
		}
	}

	hash, err := service.HashPassword(password)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	role := model.RoleAdmin
	if super {
		role = model.RoleSuperAdmin
	}
	admin := &model.AdminUser{
		Email:        email,
		PasswordHash: hash,
		EntityType:   entityType,
		EntityID:     entityID,
		Role:         role,
		IsActive:     true,
	}
	if err := st.CreateAdmin(ctx, admin); err != nil {
		return fmt.Errorf("create admin: %w", err)
	}

	fmt.Printf("Created admin %q (id %d, role %s) for %s %d\n", email, admin.ID, role, entityType, entityID)
	return nil
}

// ---------- admin list ----------

func newAdminListCmd() *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List all admin accounts",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAdminList(jsonOutput)
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")

	return cmd
}

func runAdminList(jsonOutput bool) error {
	st, err := openStore()
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer st.Close()

	admins, err := st.ListAdmins(cmdCtx())
	if err != nil {
		return fmt.Errorf("list admins: %w", err)
	}

	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(admins)
	}

	if len(admins) == 0 {
		fmt.Println("No admin accounts. Use 'campusconnect admin create' to create one.")
		return nil
	}

	fmt.Printf("%-6s %-32s %-12s %-10s %-12s %-8s\n", "ID", "EMAIL", "ENTITY", "ENT_ID", "ROLE", "ACTIVE")
	for _, a := range admins {
		active := "yes"
		if !a.IsActive {
			active = "no"
		}
		fmt.Printf("%-6d %-32s %-12s %-10d %-12s %-8s\n", a.ID, a.Email, a.EntityType, a.EntityID, a.Role, active)
	}

	return nil
}

// ---------- admin deactivate ----------

func newAdminDeactivateCmd() *cobra.Command {
	var id int64

	cmd := &cobra.Command{
		Use:   "deactivate",
		Short: "Deactivate an admin account",
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := openStore()
			if err != nil {
				return fmt.Errorf("open store: %w", err)
			}
			defer st.Close()

			if err := st.DeactivateAdmin(cmdCtx(), id); err != nil {
				return fmt.Errorf("deactivate admin %d: %w", id, err)
			}
			fmt.Printf("Deactivated admin %d\n", id)
			return nil
		},
	}

	cmd.Flags().Int64Var(&id, "id", 0, "Admin account id (required)")
	cmd.MarkFlagRequired("id")

	return cmd
}
