package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/fx-ratekeeper/internal/model"
	"github.com/sells-group/fx-ratekeeper/internal/store"
)

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Download the current rate sheet and merge it into the series",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()
		skipArchive, _ := cmd.Flags().GetBool("skip-archive")

		st, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		acquirer := buildAcquirer()
		pipeline := buildPipeline()
		writer := buildWriter()

		// The run row exists before acquisition so exhausted downloads show
		// up in the history. The source is replaced once known.
		run, err := st.CreateRun(ctx, cfg.Source.PrimaryURL)
		if err != nil {
			return err
		}

		content, source, err := acquirer.Latest(ctx)
		if err != nil {
			err = eris.Wrap(err, "fetch")
			if cerr := st.CompleteRun(ctx, run.ID, store.RunResult{
				Status: model.RunStatusFailed,
				Err:    err,
			}); cerr != nil {
				zap.L().Error("could not record run outcome", zap.Error(cerr))
			}
			return err
		}
		zap.L().Info("rate sheet acquired",
			zap.String("source", source),
			zap.Int("bytes", len(content)),
		)

		ex, err := processSheet(cmd, pipeline, writer, content, skipArchive)
		result := store.RunResult{Status: model.RunStatusSucceeded, Source: source, Files: 1}
		if err != nil {
			result.Status = model.RunStatusFailed
			result.Err = err
		} else {
			result.RateTime = &ex.Timestamp
			result.Currencies = len(ex.Rates)
		}
		if cerr := st.CompleteRun(ctx, run.ID, result); cerr != nil {
			zap.L().Error("could not record run outcome", zap.Error(cerr))
		}
		if err != nil {
			return err
		}

		fmt.Printf("Merged %d currencies at %s (%s path)\n",
			len(ex.Rates), ex.Timestamp.Format(model.TimestampFormat), ex.Source)
		return nil
	},
}

// processSheet writes the PDF to a temp file, extracts it, merges the series,
// and archives the original.
func processSheet(cmd *cobra.Command, pipeline extractor, writer merger, content []byte, skipArchive bool) (*model.Extraction, error) {
	tmpDir, err := os.MkdirTemp("", "ratekeeper-fetch-")
	if err != nil {
		return nil, eris.Wrap(err, "fetch: create temp dir")
	}
	defer os.RemoveAll(tmpDir) //nolint:errcheck

	tmpPath := filepath.Join(tmpDir, "FOREX_CARD_RATES.pdf")
	if err := os.WriteFile(tmpPath, content, 0o644); err != nil {
		return nil, eris.Wrap(err, "fetch: write temp pdf")
	}

	ex, err := pipeline.Run(cmd.Context(), tmpPath)
	if err != nil {
		return nil, err
	}

	if err := writer.Merge(ex); err != nil {
		return nil, err
	}

	if !skipArchive {
		archived, err := writer.Archive(ex.Timestamp, content)
		if err != nil {
			return nil, err
		}
		zap.L().Info("rate sheet archived", zap.String("path", archived))
	}

	return ex, nil
}

func init() {
	fetchCmd.Flags().Bool("skip-archive", false, "merge the series without archiving the PDF")
	rootCmd.AddCommand(fetchCmd)
}
