package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/djahern-max/campusconnect-backend/internal/handler"
	"github.com/djahern-max/campusconnect-backend/internal/model"
)

func newInviteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "invite",
		Short: "Manage invitation codes",
		Long:  "Issue, list, and revoke the invitation codes that gate admin registration.",
	}

	cmd.AddCommand(newInviteCreateCmd())
	cmd.AddCommand(newInviteListCmd())
	cmd.AddCommand(newInviteRevokeCmd())

	return cmd
}

// ---------- invite create ----------

func newInviteCreateCmd() *cobra.Command {
	var (
		entityType string
		entityID   int64
		email      string
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Issue an invitation code for an entity",
		Example: `  campusconnect invite create --entity-type institution --entity-id 12
  campusconnect invite create --entity-type scholarship --entity-id 3 --email admin@fund.org`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInviteCreate(entityType, entityID, email)
		},
	}

	cmd.Flags().StringVar(&entityType, "entity-type", "", "Entity type: institution or scholarship (required)")
	cmd.Flags().Int64Var(&entityID, "entity-id", 0, "Entity id the code binds to (required)")
	cmd.Flags().StringVar(&email, "email", "", "Restrict the code to one email address")
	cmd.MarkFlagRequired("entity-type")
	cmd.MarkFlagRequired("entity-id")

	return cmd
}

func runInviteCreate(entityType string, entityID int64, email string) error {
	if entityType != model.EntityInstitution && entityType != model.EntityScholarship {
		return fmt.Errorf("entity-type must be %q or %q", model.EntityInstitution, model.EntityScholarship)
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

	inv := &model.InvitationCode{
		Code:          model.NewInvitationCode(),
		EntityType:    entityType,
		EntityID:      entityID,
		AssignedEmail: email,
		Status:        model.InvitationPending,
		ExpiresAt:     time.Now().UTC().Add(handler.InvitationTTL),
		CreatedBy:     "cli",
	}
	if err := st.CreateInvitation(ctx, inv); err != nil {
		return fmt.Errorf("create invitation: %w", err)
	}

	fmt.Printf("Invitation code: %s\n", inv.Code)
	fmt.Printf("  entity:  %s %d\n", entityType, entityID)
	if email != "" {
		fmt.Printf("  email:   %s\n", email)
	}
	fmt.Printf("  expires: %s\n", inv.ExpiresAt.Format(time.RFC3339))
	return nil
}

// ---------- invite list ----------

func newInviteListCmd() *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List invitation codes",
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := openStore()
			if err != nil {
				return fmt.Errorf("open store: %w", err)
			}
			defer st.Close()

			invitations, err := st.ListInvitations(cmdCtx())
			if err != nil {
				return fmt.Errorf("list invitations: %w", err)
			}

			if jsonOutput {
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(invitations)
			}

			if len(invitations) == 0 {
				fmt.Println("No invitation codes.")
				return nil
			}

			fmt.Printf("%-18s %-12s %-8s %-10s %-20s\n", "CODE", "ENTITY", "ENT_ID", "STATUS", "EXPIRES")
			for _, inv := range invitations {
				fmt.Printf("%-18s %-12s %-8d %-10s %-20s\n",
					inv.Code, inv.EntityType, inv.EntityID, inv.Status,
					inv.ExpiresAt.Format("2006-01-02 15:04"))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")

	return cmd
}

// ---------- invite revoke ----------

func newInviteRevokeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "revoke <code>",
		Short: "Revoke a pending invitation code",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := openStore()
			if err != nil {
				return fmt.Errorf("open store: %w", err)
			}
			defer st.Close()

			if err := st.RevokeInvitation(cmdCtx(), args[0]); err != nil {
				return fmt.Errorf("revoke %s: %w", args[0], err)
			}
			fmt.Printf("Revoked invitation %s\n", args[0])
			return nil
		},
	}
	return cmd
}
