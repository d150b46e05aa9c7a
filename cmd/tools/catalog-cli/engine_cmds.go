package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"frequency-workers/internal/booking"
	"frequency-workers/internal/catalog"
	"frequency-workers/internal/common/logger"
	"frequency-workers/internal/intake"
	"frequency-workers/internal/models"
	"frequency-workers/internal/recommendation"
)

type recommendOptions struct {
	intakePath string
	form       intake.Form
	explain    bool
}

type recommendOutput struct {
	models.RecommendationResult
	Metadata models.DisplayMetadata `json:"metadata"`
	Scores   []models.ScoreEntry    `json:"scores,omitempty"`
}

func newRecommendCmd(opts *rootOptions) *cobra.Command {
	r := &recommendOptions{}

	cmd := &cobra.Command{
		Use:   "recommend",
		Short: "Run the recommendation engine against the catalog",
		Long: `Run the recommendation engine against the catalog for an intake form given
either as a JSON file (--intake) or through flags.

Examples:
  catalog-cli recommend --intake intake.json
  catalog-cli recommend --intention sleep --selected 528 --explain`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			signal, err := r.signal()
			if err != nil {
				return err
			}

			provider := catalog.NewFile(opts.catalogPath)
			engine := recommendation.NewEngine(provider, logger.NewNoOpLogger())

			candidates, err := provider.FetchCandidates(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to load catalog: %w", err)
			}

			result := engine.Recommend(cmd.Context(), signal)
			out := recommendOutput{
				RecommendationResult: result,
				Metadata:             recommendation.Resolve(result.Frequency, candidates),
			}
			if r.explain {
				out.Scores = recommendation.Score(candidates, signal)
			}
			return printJSON(cmd.OutOrStdout(), out)
		},
	}

	f := cmd.Flags()
	f.StringVar(&r.intakePath, "intake", "", "Path to an intake form JSON file")
	f.StringSliceVar(&r.form.Intentions, "intention", nil, "Intention, repeatable")
	f.StringSliceVar(&r.form.EmotionalIndicators, "emotion", nil, "Emotional indicator, repeatable")
	f.StringSliceVar((*[]string)(&r.form.HealthConcerns), "health-concern", nil, "Health concern, repeatable")
	f.Float64SliceVar((*[]float64)(&r.form.SelectedFrequencies), "selected", nil, "Pre-selected frequency in Hz, repeatable")
	f.StringVar(&r.form.Intensity, "intensity", "", "gentle, moderate or deep")
	f.BoolVar(&r.explain, "explain", false, "Include every candidate score")
	return cmd
}

func (r *recommendOptions) signal() (models.IntakeSignal, error) {
	if r.intakePath == "" {
		return intake.Normalize(r.form), nil
	}
	raw, err := os.ReadFile(r.intakePath)
	if err != nil {
		return models.IntakeSignal{}, fmt.Errorf("failed to read intake: %w", err)
	}
	return intake.Parse(raw)
}

func newDescribeCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "describe <hz>",
		Short: "Show display metadata for a frequency",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			hz := intake.ParseHz(args[0])
			if err := booking.ValidateFrequency(hz); err != nil {
				return fmt.Errorf("invalid frequency %q", args[0])
			}
			engine := recommendation.NewEngine(catalog.NewFile(opts.catalogPath), logger.NewNoOpLogger())
			return printJSON(cmd.OutOrStdout(), engine.Describe(cmd.Context(), hz))
		},
	}
}
