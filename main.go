package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"time"

	"dualstream/app"
	"dualstream/config"
	"dualstream/log"
	"dualstream/markdown"
	"dualstream/stream"
	"dualstream/ui"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var (
	version = "0.3.0"

	startFlag       bool
	independentFlag bool
	seedFlag        uint64
	referenceFlag   string
	renderFlag      string

	durationFlag  time.Duration
	leftRateFlag  string
	rightRateFlag string
	jsonFlag      bool
	outputFlag    bool

	rootCmd = &cobra.Command{
		Use:   "dualstream",
		Short: "dualstream - two simulated token streams rendered side by side",
		Long: "dualstream replays a reference markdown text as two independently paced streams\n" +
			"and renders the partial output, fenced code blocks included, as it arrives.",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !term.IsTerminal(int(os.Stdout.Fd())) {
				return errors.New("dualstream needs a terminal; use `dualstream simulate` for headless runs")
			}

			log.Initialize(false)
			defer log.Close()

			return app.Run(cmd.Context(), loadConfig(cmd), startFlag)
		},
	}

	simulateCmd = &cobra.Command{
		Use:   "simulate",
		Short: "Run both streams without a UI and print every chunk",
		Long: "Run both streams headless for --duration, printing each accepted chunk as it arrives.\n" +
			"Rates accept any input; anything that is not a positive number pauses that panel.",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			log.Initialize(true)
			defer log.Close()

			cfg := loadConfig(cmd)
			if cmd.Flags().Changed("left-rate") {
				cfg.LeftRate = rateOrPaused(cmd.ErrOrStderr(), "left", leftRateFlag)
			}
			if cmd.Flags().Changed("right-rate") {
				cfg.RightRate = rateOrPaused(cmd.ErrOrStderr(), "right", rightRateFlag)
			}
			return simulate(cmd.Context(), cmd.OutOrStdout(), cfg)
		},
	}

	segmentCmd = &cobra.Command{
		Use:   "segment [file]",
		Short: "Split markdown into plain text and fenced code segments",
		Long:  "Split a file, or stdin when no file is given, into plain text and fenced code segments.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				data []byte
				err  error
			)
			if len(args) == 1 {
				data, err = os.ReadFile(args[0])
			} else {
				data, err = io.ReadAll(cmd.InOrStdin())
			}
			if err != nil {
				return err
			}
			return printSegments(cmd.OutOrStdout(), markdown.Split(string(data)), jsonFlag)
		},
	}

	configCmd = &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration and where it is stored",
		RunE: func(cmd *cobra.Command, args []string) error {
			log.Initialize(false)
			defer log.Close()

			cfg := config.LoadConfig()
			configJson, err := json.MarshalIndent(cfg, "", "  ")
			if err != nil {
				return fmt.Errorf("failed to marshal config: %w", err)
			}
			path, err := config.ConfigPath()
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Config: %s\n%s\n", path, configJson)
			return nil
		},
	}

	versionCmd = &cobra.Command{
		Use:   "version",
		Short: "Print the version number of dualstream",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "dualstream version %s\n", version)
		},
	}
)

// loadConfig reads the config file and applies the flags shared by the
// root and simulate commands.
func loadConfig(cmd *cobra.Command) *config.Config {
	cfg := config.LoadConfig()
	flags := cmd.Flags()
	if independentFlag {
		cfg.SourceMode = string(stream.IndependentSource)
	}
	if flags.Changed("seed") {
		cfg.Seed = seedFlag
	}
	if referenceFlag != "" {
		cfg.ReferenceFile = referenceFlag
	}
	if renderFlag != "" {
		cfg.RenderMode = renderFlag
	}
	for _, problem := range cfg.Normalize() {
		fmt.Fprintln(cmd.ErrOrStderr(), "warning:", problem)
	}
	return cfg
}

// rateOrPaused parses a rate flag. Invalid input is reported and pauses the
// panel.
func rateOrPaused(w io.Writer, name, input string) float64 {
	rate, err := stream.ParseRate(input)
	if err != nil {
		fmt.Fprintf(w, "warning: %s panel paused: %v\n", name, err)
		return 0
	}
	return rate
}

type chunkEvent struct {
	Panel string `json:"panel"`
	Chunk string `json:"chunk"`
	AtMS  int64  `json:"at_ms"`
}

type panelSummary struct {
	Panel     string  `json:"panel"`
	Rate      float64 `json:"rate"`
	Chunks    int     `json:"chunks"`
	Runes     int     `json:"runes"`
	Effective float64 `json:"effective_per_sec"`
	Segments  int     `json:"segments"`
}

func simulate(ctx context.Context, w io.Writer, cfg *config.Config) error {
	opts, err := cfg.ControllerOptions()
	if err != nil {
		return err
	}
	c := stream.NewController(opts)

	if durationFlag > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, durationFlag)
		defer cancel()
	}

	start := time.Now()
	enc := json.NewEncoder(w)
	// writeErr is the first failed write; later chunks are not printed.
	var writeErr error
	onChunk := func(i int, chunk string) {
		if writeErr != nil {
			return
		}
		name := c.Panel(i).Name()
		if jsonFlag {
			writeErr = enc.Encode(chunkEvent{Panel: name, Chunk: chunk, AtMS: time.Since(start).Milliseconds()})
			return
		}
		_, writeErr = fmt.Fprintf(w, "[%s] %q\n", name, chunk)
	}

	runErr := stream.Run(ctx, c, onChunk)
	if runErr != nil && !errors.Is(runErr, context.Canceled) {
		return runErr
	}
	if writeErr != nil {
		return fmt.Errorf("failed to write chunk: %w", writeErr)
	}

	end := time.Now()
	for _, p := range c.Panels() {
		st := p.Stats(end)
		summary := panelSummary{
			Panel:     p.Name(),
			Rate:      p.Rate(),
			Chunks:    st.Chunks,
			Runes:     st.Runes,
			Effective: st.Effective,
			Segments:  len(p.Segments()),
		}
		if jsonFlag {
			if err := enc.Encode(summary); err != nil {
				return err
			}
			continue
		}
		fmt.Fprintf(w, "%s: %d chunks, %d chars, %.2f chunks/s at rate %s, %d segments\n",
			summary.Panel, summary.Chunks, summary.Runes, summary.Effective,
			stream.FormatRate(summary.Rate), summary.Segments)
	}

	if outputFlag && !jsonFlag {
		width := 80
		if tw, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && tw > 0 {
			width = tw
		}
		for _, p := range c.Panels() {
			fmt.Fprintf(w, "\n── %s ──\n", p.Name())
			fmt.Fprintln(w, ui.SegmentRenderer{
				Width:        width,
				Mode:         ui.RenderMode(cfg.RenderMode),
				GlamourStyle: cfg.GlamourStyle,
			}.Render(p.Segments()))
		}
	}
	return nil
}

func printSegments(w io.Writer, segments []markdown.Segment, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if segments == nil {
			segments = []markdown.Segment{}
		}
		return enc.Encode(segments)
	}
	for i, seg := range segments {
		label := seg.Kind.String()
		if seg.Language != "" {
			label += " " + seg.Language
		}
		fmt.Fprintf(w, "%d\t%s\t%d chars\t%s\n", i+1, label, len([]rune(seg.Content)), preview(seg.Content, 40))
	}
	return nil
}

// preview quotes the first n runes of s on one line.
func preview(s string, n int) string {
	r := []rune(strings.TrimSpace(s))
	if len(r) > n {
		return fmt.Sprintf("%q…", string(r[:n]))
	}
	return fmt.Sprintf("%q", string(r))
}

func init() {
	for _, cmd := range []*cobra.Command{rootCmd, simulateCmd} {
		cmd.Flags().BoolVar(&independentFlag, "independent", false, "Give each panel its own cursor over the text")
		cmd.Flags().Uint64Var(&seedFlag, "seed", 0, "Seed for chunk sizes (0 picks a random seed)")
		cmd.Flags().StringVar(&referenceFlag, "reference", "", "Markdown file to stream instead of the built-in text")
		cmd.Flags().StringVar(&renderFlag, "render", "", "How plain text is drawn: plain or glamour")
	}
	rootCmd.Flags().BoolVarP(&startFlag, "start", "s", false, "Start generating immediately")

	simulateCmd.Flags().DurationVarP(&durationFlag, "duration", "d", 3*time.Second, "How long to run (0 runs until interrupted)")
	simulateCmd.Flags().StringVar(&leftRateFlag, "left-rate", "", "Left panel rate in chunks per second")
	simulateCmd.Flags().StringVar(&rightRateFlag, "right-rate", "", "Right panel rate in chunks per second")
	simulateCmd.Flags().BoolVar(&jsonFlag, "json", false, "Print JSON lines instead of text")
	simulateCmd.Flags().BoolVar(&outputFlag, "output", false, "Print each panel's rendered output at the end")

	segmentCmd.Flags().BoolVar(&jsonFlag, "json", false, "Print segments as JSON")

	rootCmd.AddCommand(simulateCmd, segmentCmd, configCmd, versionCmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}
