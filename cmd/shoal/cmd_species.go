package main

import (
	"encoding/json"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newSpeciesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "species",
		Short: "Inspect the species catalog",
	}
	cmd.AddCommand(newSpeciesListCmd(), newSpeciesShowCmd())
	return cmd
}

func newSpeciesListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List known species",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			jsonOut, _ := cmd.Flags().GetBool("json")
			idx := cfg.Derived.Index

			if jsonOut {
				return json.NewEncoder(cmd.OutOrStdout()).Encode(map[string]interface{}{
					"species": cfg.Species,
					"count":   idx.Len(),
				})
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tLABEL\tSIZE\tDEPTH\tSCHOOL\tTEMPER\tBIOLOAD")
			for _, id := range idx.IDs() {
				p, _ := idx.Get(id)
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\t%d\t%.2f\n",
					p.ID, p.Label, p.SizeClass, p.PreferredDepth, p.Schooling, p.Temperament, p.Bioload)
			}
			if err := w.Flush(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "\n%d species\n", idx.Len())
			return nil
		},
	}
}

func newSpeciesShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show one species profile",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			jsonOut, _ := cmd.Flags().GetBool("json")

			p, err := cfg.Derived.Index.Lookup(args[0])
			if err != nil {
				return err
			}
			if jsonOut {
				return json.NewEncoder(cmd.OutOrStdout()).Encode(p)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s (%s)\n", p.Label, p.ID)
			fmt.Fprintf(out, "  Size:        %s\n", p.SizeClass)
			fmt.Fprintf(out, "  Depth:       %s\n", p.PreferredDepth)
			fmt.Fprintf(out, "  Schooling:   %d\n", p.Schooling)
			fmt.Fprintf(out, "  Temperament: %d\n", p.Temperament)
			fmt.Fprintf(out, "  Territory:   %.2f\n", p.TerritoryNeed)
			fmt.Fprintf(out, "  Activity:    %.2f\n", p.Activity)
			fmt.Fprintf(out, "  Bioload:     %.2f\n", p.Bioload)
			fmt.Fprintf(out, "  Oxygen use:  %.2f\n", p.OxygenUse)
			if len(p.Tags) > 0 {
				fmt.Fprintf(out, "  Tags:        %s\n", strings.Join(p.Tags, ", "))
			}
			return nil
		},
	}
}
