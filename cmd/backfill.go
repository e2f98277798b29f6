package main

import (
	"fmt"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/fx-ratekeeper/internal/backfill"
	"github.com/sells-group/fx-ratekeeper/internal/model"
	"github.com/sells-group/fx-ratekeeper/internal/store"
)

var backfillCmd = &cobra.Command{
	Use:   "backfill <dir>",
	Short: "Re-process a directory of archived rate sheet PDFs",
	Long:  "Walks the directory recursively, extracts every PDF, and merges the results into the CSV series. Failures are isolated per file.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		rearchive, _ := cmd.Flags().GetBool("archive")

		st, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		run, err := st.CreateRun(ctx, "backfill:"+args[0])
		if err != nil {
			return err
		}

		runner := backfill.NewRunner(buildPipeline(), buildWriter(), rearchive)
		res, err := runner.Run(ctx, args[0])

		result := store.RunResult{Status: model.RunStatusSucceeded, Files: res.Processed}
		if err != nil || res.Failed > 0 {
			result.Status = model.RunStatusFailed
			result.Err = err
			if err == nil {
				result.Err = eris.Errorf("%d of %d files failed", res.Failed, res.Processed+res.Failed)
			}
		}
		if cerr := st.CompleteRun(ctx, run.ID, result); cerr != nil {
			return cerr
		}
		if err != nil {
			return eris.Wrap(err, "backfill")
		}

		fmt.Printf("Processed %d files, %d failed\n", res.Processed, res.Failed)
		return nil
	},
}

func init() {
	backfillCmd.Flags().Bool("archive", false, "also copy each PDF into the archive layout")
	rootCmd.AddCommand(backfillCmd)
}
