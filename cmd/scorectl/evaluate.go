package main

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	api "github.com/mind-engage/mindengage-scorer/internal/api/http"
	"github.com/mind-engage/mindengage-scorer/internal/config"
	"github.com/mind-engage/mindengage-scorer/internal/nlp"
	"github.com/mind-engage/mindengage-scorer/internal/scoring"
)

var (
	evalReference  string
	evalCandidate  string
	evalPolicyFile string
	evalComposer   string
	evalJSON       bool
)

var evaluateCmd = &cobra.Command{
	Use:   "evaluate",
	Short: "Score a candidate answer against a reference",
	Long: `Scores one candidate answer with the NLP capabilities selected by the
environment (PARSER, EMBEDDER, PAIRWISE, GRAMMAR). With no configuration the
offline rule parser and hashing embedder are used.`,
	Args: cobra.NoArgs,
	RunE: runEvaluate,
}

func init() {
	evaluateCmd.Flags().StringVarP(&evalReference, "reference", "r", "", "reference answer")
	evaluateCmd.Flags().StringVarP(&evalCandidate, "candidate", "c", "", "candidate answer")
	evaluateCmd.Flags().StringVar(&evalPolicyFile, "policy-file", "", "TOML scoring policy (default: SCORING_POLICY_FILE)")
	evaluateCmd.Flags().StringVar(&evalComposer, "composer", "", "continuous or threshold")
	evaluateCmd.Flags().BoolVar(&evalJSON, "json", false, "output the /evaluate response body as JSON")
	_ = evaluateCmd.MarkFlagRequired("reference")
	rootCmd.AddCommand(evaluateCmd)
}

func runEvaluate(cmd *cobra.Command, _ []string) error {
	cfg := config.FromEnv()
	policy, err := config.LoadPolicy(orEnv(evalPolicyFile, cfg.PolicyFile), orEnv(evalComposer, cfg.Composer))
	if err != nil {
		return err
	}
	caps, cleanup, err := nlp.Build(cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	ev, err := scoring.NewEvaluator(caps, scoring.StaticPolicy(policy))
	if err != nil {
		return err
	}
	res, err := ev.Evaluate(cmd.Context(), scoring.Request{Reference: evalReference, Candidate: evalCandidate})
	if err != nil {
		return fmt.Errorf("evaluate: %w", err)
	}

	out := cmd.OutOrStdout()
	details := api.Details(res)
	if evalJSON {
		data, err := json.MarshalIndent(map[string]any{
			"success":    true,
			"finalScore": res.FinalScore,
			"details":    details,
		}, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal result: %w", err)
		}
		fmt.Fprintln(out, string(data))
		return nil
	}

	fmt.Fprintf(out, "score: %.2f/10 (%s)\n", res.FinalScore, res.Policy)
	keys := make([]string, 0, len(details))
	for k := range details {
		if k != "weights" {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(out, "  %-18s %v\n", k, details[k])
	}
	return nil
}

func orEnv(flag, env string) string {
	if flag != "" {
		return flag
	}
	return env
}
