package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"

	"github.com/zjrosen/dropzone/internal/replay"
	"github.com/zjrosen/dropzone/internal/tracing"
	"github.com/zjrosen/dropzone/internal/ui/styles"
)

var (
	replayQuiet   bool
	replayNoColor bool
	replayTimeout time.Duration
)

// errReplayFailed is returned when any script's transcript differs from its
// expectation. The diffs have already been printed.
var errReplayFailed = errors.New("replay failed")

var replayCmd = &cobra.Command{
	Use:   "replay <script.yaml>...",
	Short: "Run scripted drag gestures against a headless engine",
	Long: `Run one or more replay scripts against a headless drag-drop engine and
print the callbacks each one produced.

A script declares draggable handles and drop targets as rectangles, then a
list of steps (start, move, wait, end, terminate, unmount, teardown,
unregister). Time is simulated, so the transcript is identical on every run.
When a script has an expect list, the transcript must match it exactly or
the command exits non-zero with a line diff.

Examples:
  # Print the transcript of a script
  dropzone replay testdata/drop_on_trash.yaml

  # Verify a directory of scripts, printing only failures
  dropzone replay -q scripts/*.yaml`,
	Args: cobra.MinimumNArgs(1),
	RunE: runReplay,
}

func init() {
	replayCmd.Flags().BoolVarP(&replayQuiet, "quiet", "q", false, "print only failing scripts")
	replayCmd.Flags().BoolVar(&replayNoColor, "no-color", false, "disable colored output (also NO_COLOR)")
	replayCmd.Flags().DurationVar(&replayTimeout, "settle-timeout", replay.DefaultSettleTimeout,
		"how long a step may take to settle")
	rootCmd.AddCommand(replayCmd)
}

func runReplay(cmd *cobra.Command, args []string) error {
	cleanup, err := initLogging("dropzone-replay")
	if err != nil {
		return err
	}
	defer cleanup()

	if replayNoColor || os.Getenv("NO_COLOR") != "" {
		lipgloss.SetColorProfile(termenv.Ascii)
	}

	provider, err := tracing.NewProvider(cfg.Tracing)
	if err != nil {
		return fmt.Errorf("initializing tracing: %w", err)
	}
	defer func() {
		shutdownCtx, done := context.WithTimeout(context.Background(), 5*time.Second)
		defer done()
		_ = provider.Shutdown(shutdownCtx)
	}()

	opts := []replay.Option{replay.WithSettleTimeout(replayTimeout)}
	if provider.Enabled() {
		opts = append(opts, replay.WithTracer(provider.Tracer()))
	}

	failed := 0
	for _, path := range args {
		if !replayScript(cmd.Context(), cmd.OutOrStdout(), path, opts) {
			failed++
		}
	}
	if failed > 0 {
		return fmt.Errorf("%w: %d of %d scripts", errReplayFailed, failed, len(args))
	}
	return nil
}

// replayScript runs and reports one script. It returns false on failure.
func replayScript(ctx context.Context, w io.Writer, path string, opts []replay.Option) bool {
	pass := lipgloss.NewStyle().Foreground(styles.StatusSuccessColor).Bold(true)
	fail := lipgloss.NewStyle().Foreground(styles.StatusErrorColor).Bold(true)

	s, err := replay.Load(path)
	if err != nil {
		_, _ = fmt.Fprintf(w, "%s %s\n  %v\n", fail.Render("FAIL"), path, err)
		return false
	}

	res, err := replay.Run(ctx, s, opts...)
	if err != nil {
		_, _ = fmt.Fprintf(w, "%s %s\n  %v\n", fail.Render("FAIL"), path, err)
		return false
	}

	if err := res.Verify(s.Expect); err != nil {
		_, _ = fmt.Fprintf(w, "%s %s\n%s", fail.Render("FAIL"), path, renderDiff(err))
		return false
	}

	if replayQuiet {
		return true
	}
	status := "ok"
	if len(s.Expect) > 0 {
		status = pass.Render("PASS")
	}
	_, _ = fmt.Fprintf(w, "%s %s (%d completed, %d cancelled)\n", status, path,
		res.Stats.Completed, res.Stats.Cancelled)
	if len(s.Expect) == 0 {
		_, _ = io.WriteString(w, indent(res.String()))
	}
	return true
}

// renderDiff colors the "-" and "+" lines of a mismatch diff.
func renderDiff(err error) string {
	removed := lipgloss.NewStyle().Foreground(styles.StatusErrorColor)
	added := lipgloss.NewStyle().Foreground(styles.StatusSuccessColor)

	msg := err.Error()
	if i := strings.Index(msg, "\n"); i >= 0 {
		msg = msg[i+1:]
	}

	var sb strings.Builder
	for _, line := range strings.Split(strings.TrimSuffix(msg, "\n"), "\n") {
		switch {
		case strings.HasPrefix(line, "- "):
			line = removed.Render(line)
		case strings.HasPrefix(line, "+ "):
			line = added.Render(line)
		}
		sb.WriteString("  ")
		sb.WriteString(line)
		sb.WriteByte('\n')
	}
	return sb.String()
}

func indent(s string) string {
	if s == "" {
		return ""
	}
	lines := strings.Split(strings.TrimSuffix(s, "\n"), "\n")
	return "  " + strings.Join(lines, "\n  ") + "\n"
}
