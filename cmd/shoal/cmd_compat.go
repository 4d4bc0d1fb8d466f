package main

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/pthm-cable/shoal/config"
	"github.com/pthm-cable/shoal/systems"
)

func newCompatCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "compat [species-a species-b]",
		Short: "Show compatibility scores",
		Long: `Compat prints the pairwise compatibility score in [0,1] and the hostility
it contributes to the tank. Pairs without a rule score 0.5.

With no arguments it lists every configured rule.`,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 0 && len(args) != 2 {
				return fmt.Errorf("compat takes no arguments or two species ids, got %d", len(args))
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			jsonOut, _ := cmd.Flags().GetBool("json")

			if len(args) == 0 {
				return listRules(cmd, cfg, jsonOut)
			}

			for _, id := range args {
				if _, err := cfg.Derived.Index.Lookup(id); err != nil {
					return err
				}
			}

			score := cfg.Derived.Lookup.Score(args[0], args[1])
			hostility := systems.Hostility(score, cfg.Tuning.Metrics.HostilityThreshold)

			if jsonOut {
				return json.NewEncoder(cmd.OutOrStdout()).Encode(map[string]interface{}{
					"a":         args[0],
					"b":         args[1],
					"score":     score,
					"hostility": hostility,
				})
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s / %s: score %.2f, hostility %.3f\n",
				args[0], args[1], score, hostility)
			return nil
		},
	}
}

// listRules prints every configured compatibility rule with its hostility.
func listRules(cmd *cobra.Command, cfg *config.Config, jsonOut bool) error {
	rules := cfg.Derived.Lookup.Rules()
	threshold := cfg.Tuning.Metrics.HostilityThreshold

	if jsonOut {
		type ruleOut struct {
			A         string  `json:"a"`
			B         string  `json:"b"`
			Score     float64 `json:"score"`
			Hostility float64 `json:"hostility"`
		}
		out := make([]ruleOut, len(rules))
		for i, r := range rules {
			out[i] = ruleOut{A: r.A, B: r.B, Score: r.Score, Hostility: systems.Hostility(r.Score, threshold)}
		}
		return json.NewEncoder(cmd.OutOrStdout()).Encode(map[string]interface{}{
			"rules": out,
			"count": len(out),
		})
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "A\tB\tSCORE\tHOSTILITY")
	for _, r := range rules {
		fmt.Fprintf(w, "%s\t%s\t%.2f\t%.3f\n", r.A, r.B, r.Score, systems.Hostility(r.Score, threshold))
	}
	if err := w.Flush(); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "\n%d rules\n", len(rules))
	return nil
}
