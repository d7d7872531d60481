package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/filmgrain/reviewpipe/internal/cleaner"
	"github.com/filmgrain/reviewpipe/internal/glyph"
	"github.com/filmgrain/reviewpipe/internal/logging"
)

// newCleanCmd creates and configures the 'clean' subcommand.
// It removes all long reviews, and ones that cannot be rendered by the
// chosen fonts.
func newCleanCmd() *cobra.Command {
	var (
		input  string
		output string
		fonts  []string
	)

	cmd := &cobra.Command{
		Use:   "clean",
		Short: "Filters reviews for length and font renderability",

		RunE: func(_ *cobra.Command, _ []string) error {
			set, err := glyph.Load(fonts...)
			if err != nil {
				return fmt.Errorf("load fonts: %w", err)
			}

			res, err := cleaner.CleanFile(input, output, set, logging.L)
			if err != nil {
				return err
			}
			fmt.Printf("Original reviews: %d\nCleaned reviews: %d\n", res.Original, res.Cleaned)
			return nil
		},
	}

	cmd.Flags().StringVarP(&input, "input", "i", "", "file containing reviews to clean")
	cmd.Flags().StringVarP(&output, "output", "o", "", "file where cleaned reviews will be stored")
	cmd.Flags().StringSliceVarP(&fonts, "fonts", "f", nil, "the font(s) which will be used to render the reviews")
	_ = cmd.MarkFlagRequired("input")
	_ = cmd.MarkFlagRequired("output")
	_ = cmd.MarkFlagRequired("fonts")

	return cmd
}
