package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"frequency-workers/internal/models"
	"frequency-workers/pkg/registry"
)

func newValidateCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Check every catalog entry and the uniqueness of ids and ranges",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, err := registry.LoadRegistry(opts.catalogPath)
			if err != nil {
				return fmt.Errorf("failed to load catalog: %w", err)
			}
			if err := reg.Validate(); err != nil {
				return fmt.Errorf("catalog validation failed: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Catalog validation passed (%d frequencies).\n", len(reg.Frequencies))
			return nil
		},
	}
}

func newListCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List catalog entries in range order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, err := registry.LoadRegistry(opts.catalogPath)
			if err != nil {
				return fmt.Errorf("failed to load catalog: %w", err)
			}
			entries := append([]models.Candidate(nil), reg.Frequencies...)
			registry.SortByRange(entries)

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tRANGE\tNAME\tFAMILY\tAUDIO")
			for _, f := range entries {
				audio := "-"
				if f.AudioURL != "" {
					audio = "yes"
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", f.ID, f.Key(), f.Name, f.Family, audio)
			}
			return tw.Flush()
		},
	}
}

type addOptions struct {
	entry      models.Candidate
	intentions []string
	properties []string
	harmonics  []int
}

func newAddCmd(opts *rootOptions) *cobra.Command {
	a := &addOptions{}

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a frequency to the catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, err := registry.LoadRegistry(opts.catalogPath)
			if err != nil {
				if !os.IsNotExist(err) {
					return fmt.Errorf("failed to load catalog: %w", err)
				}
				reg = &registry.FrequencyRegistry{Version: "1.0.0"}
			}

			entry := a.entry
			if !cmd.Flags().Changed("max") {
				entry.FrequencyRangeMax = entry.FrequencyRangeMin
			}
			entry.PrimaryIntentions = nonNil(a.intentions)
			entry.HealingProperties = nonNil(a.properties)
			entry.HarmonicConnections = a.harmonics
			if entry.HarmonicConnections == nil {
				entry.HarmonicConnections = []int{}
			}

			if err := reg.Add(entry); err != nil {
				return err
			}
			if err := registry.SaveRegistry(reg, opts.catalogPath); err != nil {
				return fmt.Errorf("failed to save catalog: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added frequency: %s (%s Hz)\n", entry.ID, entry.Key())
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&a.entry.ID, "id", "", "Catalog id (e.g. solfeggio-528)")
	f.StringVar(&a.entry.Name, "name", "", "Display name")
	f.Float64Var(&a.entry.FrequencyRangeMin, "min", 0, "Lower bound in Hz")
	f.Float64Var(&a.entry.FrequencyRangeMax, "max", 0, "Upper bound in Hz (defaults to --min)")
	f.StringVar(&a.entry.Family, "family", "", "Frequency family (e.g. Solfeggio)")
	f.StringVar(&a.entry.AudioURL, "audio-url", "", "Audio asset URL")
	f.StringSliceVar(&a.intentions, "intention", nil, "Primary intention, repeatable")
	f.StringSliceVar(&a.properties, "property", nil, "Healing property, repeatable")
	f.IntSliceVar(&a.harmonics, "harmonic", nil, "Related frequency in Hz, repeatable")
	_ = cmd.MarkFlagRequired("id")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("min")
	return cmd
}

func nonNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
