package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/mvp-joe/enumgen/internal/config"
	"github.com/mvp-joe/enumgen/internal/enumscan"
	"github.com/mvp-joe/enumgen/internal/watcher"
	"github.com/spf13/cobra"
)

var (
	extractStrictFlag bool
	extractWatchFlag  bool
	extractQuietFlag  bool
)

// ErrArgs indicates positional arguments that do not fit the configured policy
var ErrArgs = errors.New("invalid arguments")

// extractCmd represents the extract command
var extractCmd = &cobra.Command{
	Use:   "extract <input> [output]",
	Short: "Extract enum reverse lookup tables from a header",
	Long: `Extract scans a C++ header for namespace / enum / enum class blocks and
writes a JSON table mapping each fully-qualified enum name to {value: member}.

The header is split on whitespace; "=", "};" and "::" must appear as written
in generated headers such as Enums_Internal.hpp.

When the output path is omitted, extract.default_output_name is used
(enums.json unless configured). With extract.strict_args (or --strict) both
paths are required.

A missing input file is reported and nothing is written.

Examples:
  # Write ./enums.json
  enumgen extract Enums_Internal.hpp

  # Explicit output
  enumgen extract Enums_Internal.hpp gen/enums.json

  # Regenerate on every change of the header
  enumgen extract Enums_Internal.hpp gen/enums.json --watch
`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runExtract,
}

func init() {
	rootCmd.AddCommand(extractCmd)
	extractCmd.Flags().BoolVar(&extractStrictFlag, "strict", false, "Require both input and output arguments")
	extractCmd.Flags().BoolVarP(&extractWatchFlag, "watch", "w", false, "Regenerate whenever the input changes")
	extractCmd.Flags().BoolVarP(&extractQuietFlag, "quiet", "q", false, "Suppress output messages")
}

func runExtract(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	extractCfg := cfg.Extract
	if extractStrictFlag {
		extractCfg.StrictArgs = true
	}

	input, output, err := resolveExtractArgs(extractCfg, args)
	if err != nil {
		return err
	}

	job := &extractJob{
		input:   input,
		output:  output,
		out:     cmd.OutOrStdout(),
		quiet:   extractQuietFlag,
		verbose: verbose,
	}

	if !extractWatchFlag {
		_, err := job.run()
		return err
	}

	ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer cancel()
	return watchExtract(ctx, job, time.Duration(extractCfg.DebounceMS)*time.Millisecond)
}

// resolveExtractArgs applies the positional argument policy: strict mode
// requires exactly input and output, lenient mode defaults the output.
func resolveExtractArgs(cfg config.ExtractConfig, args []string) (input, output string, err error) {
	switch {
	case cfg.StrictArgs && len(args) != 2:
		return "", "", fmt.Errorf("%w: expected <input> <output>, got %d argument(s)", ErrArgs, len(args))
	case len(args) == 2:
		return args[0], args[1], nil
	case len(args) == 1:
		return args[0], cfg.DefaultOutputName, nil
	default:
		return "", "", fmt.Errorf("%w: expected <input> [output], got %d argument(s)", ErrArgs, len(args))
	}
}

// extractJob turns one header into one table. It remembers the hash of the
// last input it converted so unchanged saves are skipped in watch mode.
type extractJob struct {
	input   string
	output  string
	out     io.Writer
	quiet   bool
	verbose bool

	lastSum uint64
	hasSum  bool
}

// run converts the input once. It returns false without error when the input
// is missing or unchanged since the previous run.
func (j *extractJob) run() (bool, error) {
	data, err := enumscan.ReadInput(j.input)
	if errors.Is(err, enumscan.ErrInputNotFound) {
		fmt.Fprintf(j.out, "Input file %s does not exist, nothing written\n", j.input)
		return false, nil
	}
	if err != nil {
		return false, err
	}

	sum := xxhash.Sum64(data)
	if j.hasSum && sum == j.lastSum {
		if j.verbose {
			log.Printf("%s unchanged, skipping", j.input)
		}
		return false, nil
	}

	if !j.quiet {
		fmt.Fprintf(j.out, "%s -> %s\n", j.input, j.output)
	}

	result, stats, err := enumscan.ExtractBytes(data)
	if err != nil {
		return false, fmt.Errorf("failed to scan %s: %w", j.input, err)
	}

	if err := enumscan.WriteFile(j.output, result); err != nil {
		return false, err
	}
	j.lastSum, j.hasSum = sum, true

	if stats.Collisions > 0 && j.verbose {
		log.Printf("Warning: %d member(s) share a value with an earlier member; the later name was kept", stats.Collisions)
	}
	if !j.quiet {
		fmt.Fprintf(j.out, "✓ Wrote %s enums (%s members) to %s\n",
			formatNumber(stats.Enums), formatNumber(stats.Members), j.output)
	}
	return true, nil
}

// watchExtract runs the job once, then again after every debounced change
// of the input until ctx is cancelled.
func watchExtract(ctx context.Context, job *extractJob, debounce time.Duration) error {
	if _, err := job.run(); err != nil {
		// Keep watching: the next save may fix the header.
		log.Printf("Error: %v", err)
	}

	fw, err := watcher.NewFileSetWatcher([]string{job.input}, debounce)
	if err != nil {
		return fmt.Errorf("failed to watch %s: %w", job.input, err)
	}
	defer fw.Stop()

	err = fw.Start(ctx, func(files []string) {
		fw.Pause()
		defer fw.Resume()
		if _, err := job.run(); err != nil {
			log.Printf("Error: %v", err)
		}
	})
	if err != nil {
		return err
	}

	if !job.quiet {
		fmt.Fprintf(job.out, "Watching %s (Ctrl+C to stop)\n", job.input)
	}
	<-ctx.Done()
	return nil
}
