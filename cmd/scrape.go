package cmd

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/filmgrain/reviewpipe/internal/logging"
	"github.com/filmgrain/reviewpipe/internal/review"
	"github.com/filmgrain/reviewpipe/internal/scraper"
)

// newScrapeCmd creates and configures the 'scrape' subcommand.
// It walks the configured page range, assembles normalized review
// records, and writes them to the output JSON file.
func newScrapeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scrape",
		Short: "Scrapes review listing pages into a JSON file",
		Long: `Fetches each listing page in the configured range, extracts every
review together with its full text, drops non-target-language reviews
and ones matching an excluded phrase, and writes the remainder as a
JSON array.`,

		RunE: runScrapeCommand,
	}
	// Flag defaults mirror the viper defaults; an unchanged flag ranks
	// below config-file values, so the two must agree.
	cmd.Flags().String("pages", "1-3", "page range to scrape, e.g. \"1-3\" or \"1,2,5\"")
	cmd.Flags().String("out", "reviews.json", "output file for scraped reviews")
	_ = viper.BindPFlag("scraper.pages", cmd.Flags().Lookup("pages"))
	_ = viper.BindPFlag("scraper.output", cmd.Flags().Lookup("out"))
	return cmd
}

func runScrapeCommand(cmd *cobra.Command, _ []string) error {
	logger := logging.L.With(zap.String("run_id", uuid.NewString()))

	cfg, err := scraper.LoadConfig(viper.GetViper())
	if err != nil {
		return fmt.Errorf("load scraper config: %w", err)
	}

	var phrases []string
	if cfg.PhraseFile != "" {
		phrases, err = scraper.LoadPhraseFile(cfg.PhraseFile)
		if err != nil {
			return err
		}
	}

	fetcher, err := scraper.NewCollyFetcher(cfg, logger)
	if err != nil {
		return fmt.Errorf("init fetcher: %w", err)
	}

	s, err := scraper.New(cfg, fetcher, scraper.NewLinguaClassifier(), phrases, logger)
	if err != nil {
		return fmt.Errorf("init scraper: %w", err)
	}

	logger.Info("Starting scrape",
		zap.Ints("pages", cfg.Pages),
		zap.String("output", cfg.OutputPath),
	)
	reviews, err := s.ScrapeRange(cmd.Context())
	if err != nil {
		return fmt.Errorf("run scraper: %w", err)
	}

	if err := review.WriteFile(cfg.OutputPath, reviews); err != nil {
		return err
	}
	logger.Info("Scrape finished",
		zap.Int("reviews", len(reviews)),
		zap.String("output", cfg.OutputPath),
	)
	return nil
}
