package main

import (
	"fmt"

	"github.com/spf13/cobra"

	auth "github.com/mind-engage/mindengage-scorer/internal/auth/middleware"
	"github.com/mind-engage/mindengage-scorer/internal/config"
	"github.com/mind-engage/mindengage-scorer/internal/rbac"
)

var (
	tokenSub  string
	tokenRole string
)

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Mint a bearer token signed with AUTH_HMAC_SECRET",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		if _, ok := rbac.RolePermissions[tokenRole]; !ok {
			return fmt.Errorf("unknown role %q", tokenRole)
		}
		tok, err := auth.NewAuthService(config.FromEnv().AuthHMACSecret).IssueJWT(tokenSub, tokenRole)
		if err != nil {
			return fmt.Errorf("issue token: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), tok)
		return nil
	},
}

func init() {
	tokenCmd.Flags().StringVar(&tokenSub, "sub", "", "token subject")
	tokenCmd.Flags().StringVar(&tokenRole, "role", "service", "student, service, teacher or admin")
	_ = tokenCmd.MarkFlagRequired("sub")
	rootCmd.AddCommand(tokenCmd)
}
