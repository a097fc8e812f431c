package main

import (
	"github.com/spf13/cobra"

	"github.com/mind-engage/mindengage-scorer/internal/config"
)

var (
	policyFile     string
	policyComposer string
)

var policyCmd = &cobra.Command{
	Use:   "policy",
	Short: "Print the effective scoring policy as TOML",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg := config.FromEnv()
		p, err := config.LoadPolicy(orEnv(policyFile, cfg.PolicyFile), orEnv(policyComposer, cfg.Composer))
		if err != nil {
			return err
		}
		data, err := config.EncodePolicy(p)
		if err != nil {
			return err
		}
		_, err = cmd.OutOrStdout().Write(data)
		return err
	},
}

func init() {
	policyCmd.Flags().StringVar(&policyFile, "policy-file", "", "TOML scoring policy (default: SCORING_POLICY_FILE)")
	policyCmd.Flags().StringVar(&policyComposer, "composer", "", "override the composer")
	rootCmd.AddCommand(policyCmd)
}
