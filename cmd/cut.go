package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/killallgit/autocut/internal/database"
	"github.com/killallgit/autocut/internal/logging"
	"github.com/killallgit/autocut/internal/pipeline"
	"github.com/killallgit/autocut/internal/progress"
	"github.com/killallgit/autocut/internal/reconstruct"
	"github.com/killallgit/autocut/internal/services/cuts"
	"github.com/spf13/cobra"
)

func newCutCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cut <input>",
		Short: "Remove silence from a video file",
		Long: `Remove silent segments from a video file.

The output defaults to <name>_ALTERED<ext> next to the input. A progress bar
is shown while frames are rebuilt when stderr is a terminal.

Example:
  autocut cut talk.mp4
  autocut cut talk.mp4 -o short.mp4 --frame-margin 3 --silent-threshold 0.03
  autocut cut interview.mkv --track 1 --keep-tracks-separate`,
		Args: cobra.ExactArgs(1),
		RunE: runCut,
	}

	cmd.Flags().StringP("output", "o", "", "output file (default <input>_ALTERED<ext>)")
	cmd.Flags().Bool("no-progress", false, "never show the progress bar")
	cmd.Flags().Bool("record", false, "store the result in the database")
	addCutFlags(cmd)
	return cmd
}

func runCut(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	output, _ := cmd.Flags().GetString("output")
	req := pipeline.Request{
		Input:   args[0],
		Output:  output,
		Options: cutOptions(cmd, appConfig),
	}

	runner, err := newRunner(appConfig, appLogger)
	if err != nil {
		return err
	}

	var observer reconstruct.Observer = reconstruct.NopObserver{}
	noProgress, _ := cmd.Flags().GetBool("no-progress")
	if !noProgress && progress.IsTerminal(os.Stderr) {
		bar := progress.NewBar(cmd.ErrOrStderr(), filepath.Base(req.Input))
		defer bar.Finish()
		observer = bar
	}

	res, err := runner.Run(ctx, req, observer)
	if err != nil {
		return err
	}
	printResult(cmd.OutOrStdout(), res)

	if record, _ := cmd.Flags().GetBool("record"); record {
		return recordCut(ctx, req, res)
	}
	return nil
}

func printResult(w io.Writer, res *pipeline.Result) {
	fmt.Fprintf(w, "Wrote %s\n", res.Output)
	fmt.Fprintf(w, "  kept %d of %d frames (%.1f%%) in %d run(s)\n",
		res.Summary.KeptFrames, res.Summary.TotalFrames, res.Summary.KeptRatio()*100, res.Summary.KeptRuns)
	fmt.Fprintf(w, "  %d audio track(s), %.3f fps, finished in %s\n",
		res.Tracks, res.FrameRate, res.Elapsed.Round(time.Millisecond))
}

// recordCut stores a CLI run as a cut record without a job.
func recordCut(ctx context.Context, req pipeline.Request, res *pipeline.Result) error {
	db, err := database.InitializeFromConfig(appConfig.Database)
	if err != nil {
		return err
	}
	defer db.Close()

	record, err := cuts.RecordFromResult(0, req, res)
	if err != nil {
		return err
	}
	if err := cuts.NewService(cuts.NewRepository(db.DB), appLogger).SaveCut(ctx, record); err != nil {
		return err
	}
	logging.NewComponent(appLogger, "cli").Info("recorded cut", slog.Uint64("cut_id", uint64(record.ID)))
	return nil
}
