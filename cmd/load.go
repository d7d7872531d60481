package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/filmgrain/reviewpipe/internal/loader"
	"github.com/filmgrain/reviewpipe/internal/logging"
	"github.com/filmgrain/reviewpipe/internal/metadata"
	"github.com/filmgrain/reviewpipe/internal/review"
	"github.com/filmgrain/reviewpipe/internal/store"
)

// newLoadCmd creates and configures the 'load' subcommand.
// It ingests a scraped/cleaned review file into the relational store,
// resolving movie and crew metadata along the way.
func newLoadCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "load <review_file>",
		Short: "Loads reviews into the relational store",
		Long: `Reads a JSON review file, resolves each review's movie through the
metadata service (using the movies.json sidecar cache to skip titles
resolved on previous runs), and upserts movie, crew, and review rows.
The cache is flushed even when a run fails partway so a re-run resumes
without redoing completed work.`,
		Args: cobra.ExactArgs(1),
		RunE: runLoadCommand,
	}
}

func runLoadCommand(cmd *cobra.Command, args []string) error {
	logger := logging.L.With(zap.String("run_id", uuid.NewString()))

	reviews, err := review.ReadFile(args[0])
	if err != nil {
		return err
	}

	cache, err := loader.LoadCache(viper.GetString("loader.cache_path"))
	if err != nil {
		return err
	}

	md, err := metadata.NewOMDBClient(
		viper.GetString("metadata.api_key"),
		logger,
		metadata.WithBaseURL(viper.GetString("metadata.base_url")),
	)
	if err != nil {
		return fmt.Errorf("init metadata client: %w", err)
	}

	st, err := store.New(cmd.Context(), viper.GetString("loader.dsn"))
	if err != nil {
		return fmt.Errorf("init store: %w", err)
	}
	// The connection is released after the loader's cache flush has
	// run, on both the success and failure paths.
	defer st.Close()

	l, err := loader.New(st, md, cache, logger, loader.WithProgress(os.Stderr))
	if err != nil {
		return fmt.Errorf("init loader: %w", err)
	}

	logger.Info("Starting load",
		zap.Int("reviews", len(reviews)),
		zap.Int("cached_movies", cache.Len()),
	)
	if err := l.Run(cmd.Context(), reviews); err != nil {
		var movieErr *loader.MovieError
		if errors.As(err, &movieErr) {
			fmt.Fprintf(os.Stderr, "Crashed on %s\n", movieErr.Movie)
		}
		return fmt.Errorf("run loader: %w", err)
	}

	logger.Info("Load finished", zap.Int("reviews", len(reviews)))
	return nil
}
