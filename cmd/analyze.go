package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/killallgit/autocut/internal/pipeline"
	"github.com/spf13/cobra"
)

func newAnalyzeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze <input>",
		Short: "Show the keep and drop intervals without cutting",
		Long: `Classify one audio track and print the resulting intervals.

Nothing is re-encoded. Use it to tune --silent-threshold and --frame-margin
before running cut.

Example:
  autocut analyze talk.mp4
  autocut analyze talk.mp4 --silent-threshold 0.02 --format json`,
		Args: cobra.ExactArgs(1),
		RunE: runAnalyze,
	}

	cmd.Flags().String("format", "table", "output format (table, json)")
	addAnalysisFlags(cmd)
	return cmd
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	format, _ := cmd.Flags().GetString("format")
	if format != "table" && format != "json" {
		return fmt.Errorf("unsupported format %q", format)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	runner, err := newRunner(appConfig, appLogger)
	if err != nil {
		return err
	}

	analysis, err := runner.Analyze(ctx, args[0], cutOptions(cmd, appConfig))
	if err != nil {
		return err
	}

	if format == "json" {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(analysis)
	}
	renderAnalysis(cmd.OutOrStdout(), analysis)
	return nil
}

func renderAnalysis(w io.Writer, a *pipeline.Analysis) {
	fps := 0.0
	if a.Info != nil {
		fps = a.Info.FrameRate
	}

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.SetTitle(fmt.Sprintf("Track %d at %.3f fps", a.Track, fps))
	t.AppendHeader(table.Row{"#", "Start", "End", "Frames", "From", "Length", "Tier"})
	for i, iv := range a.Intervals {
		t.AppendRow(table.Row{
			i + 1,
			iv.Start,
			iv.End,
			iv.Len(),
			timecode(iv.Start, fps),
			timecode(iv.Len(), fps),
			iv.Tier.String(),
		})
	}
	t.AppendFooter(table.Row{
		"", "", "Kept",
		fmt.Sprintf("%d / %d", a.Summary.KeptFrames, a.Summary.TotalFrames),
		"", timecode(a.Summary.KeptFrames, fps),
		fmt.Sprintf("%.1f%%", a.Summary.KeptRatio()*100),
	})
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 2, Align: text.AlignRight},
		{Number: 3, Align: text.AlignRight},
		{Number: 4, Align: text.AlignRight},
	})
	t.Render()
}

// timecode formats a frame count as HH:MM:SS.mmm.
func timecode(frames int, fps float64) string {
	if fps <= 0 {
		return "-"
	}
	ms := int64(float64(frames) / fps * 1000)
	h := ms / 3_600_000
	m := ms / 60_000 % 60
	s := ms / 1000 % 60
	return fmt.Sprintf("%02d:%02d:%02d.%03d", h, m, s, ms%1000)
}
