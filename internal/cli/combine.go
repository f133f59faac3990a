package cli

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	"github.com/mvp-joe/enumgen/internal/combine"
	"github.com/mvp-joe/enumgen/internal/config"
	"github.com/mvp-joe/enumgen/internal/watcher"
	"github.com/spf13/cobra"
)

var (
	combineSuffixFlag        string
	combineMsgVersionFlag    int
	combineIgnoreFlag        []string
	combineWorkersFlag       int
	combineValidateUUIDsFlag bool
	combineQuietFlag         bool
	combineWatchFlag         bool
)

// combineCmd represents the combine command
var combineCmd = &cobra.Command{
	Use:   "combine <dir>",
	Short: "Merge message tables into combined_msgs.json",
	Long: `Combine walks <dir> and merges the "msgs" and "name_to_uuid" objects of
every file whose name ends with the configured suffix (msg.23.json by default)
into <dir>/combined_msgs.json.

Files are merged in lexical path order; when two files define the same key,
the one later in that order wins. Files that fail to parse, or lack one of
the two objects, are reported and skipped.

Examples:
  # Merge msg.23.json files below ./natives
  enumgen combine ./natives

  # Another data version
  enumgen combine ./natives --msg-version 22

  # Skip a directory and check name_to_uuid values
  enumgen combine ./natives --ignore "backup/**" --validate-uuids
`,
	Args: cobra.ExactArgs(1),
	RunE: runCombine,
}

func init() {
	rootCmd.AddCommand(combineCmd)
	combineCmd.Flags().StringVarP(&combineSuffixFlag, "suffix", "s", "", "File name suffix to merge (default from config)")
	combineCmd.Flags().IntVar(&combineMsgVersionFlag, "msg-version", 0, "Merge msg.<n>.json files (overrides --suffix)")
	combineCmd.Flags().StringSliceVar(&combineIgnoreFlag, "ignore", nil, "Additional glob patterns to skip")
	combineCmd.Flags().IntVar(&combineWorkersFlag, "workers", 0, "Concurrent decoders (default from config)")
	combineCmd.Flags().BoolVar(&combineValidateUUIDsFlag, "validate-uuids", false, "Warn about name_to_uuid values that are not UUIDs")
	combineCmd.Flags().BoolVarP(&combineQuietFlag, "quiet", "q", false, "Suppress output messages")
	combineCmd.Flags().BoolVarP(&combineWatchFlag, "watch", "w", false, "Re-run whenever a message file changes")
}

func runCombine(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	opts := combineOptions(cfg.Combine)
	reporter := NewCombineProgressReporter(cmd.OutOrStdout(), combineQuietFlag)
	opts.Reporter = reporter

	c, err := combine.New(opts)
	if err != nil {
		return err
	}

	dir := args[0]
	if !combineWatchFlag {
		return executeCombine(cmd.Context(), c, dir)
	}

	ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer cancel()
	return watchCombine(ctx, c, dir, opts, cmd.OutOrStdout(), time.Duration(cfg.Combine.DebounceMS)*time.Millisecond)
}

// combineOptions merges command-line flags over the configured defaults.
func combineOptions(cfg config.CombineConfig) combine.Options {
	opts := combine.Options{
		Suffix:        cfg.Suffix,
		OutputName:    cfg.OutputName,
		Ignore:        append([]string(nil), cfg.Ignore...),
		Workers:       cfg.Workers,
		ValidateUUIDs: cfg.ValidateUUIDs,
	}
	if combineSuffixFlag != "" {
		opts.Suffix = combineSuffixFlag
	}
	if combineMsgVersionFlag > 0 {
		opts.Suffix = config.SuffixForVersion(combineMsgVersionFlag)
	}
	if len(combineIgnoreFlag) > 0 {
		opts.Ignore = append(opts.Ignore, combineIgnoreFlag...)
	}
	if combineWorkersFlag > 0 {
		opts.Workers = combineWorkersFlag
	}
	if combineValidateUUIDsFlag {
		opts.ValidateUUIDs = true
	}
	return opts
}

func executeCombine(ctx context.Context, c *combine.Combiner, dir string) error {
	info, err := os.Stat(dir)
	if err != nil {
		return fmt.Errorf("failed to access %s: %w", dir, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", dir)
	}

	_, err = c.Run(ctx, dir)
	return err
}

// watchCombine merges once, then again whenever a matching file below dir
// changes. Writes to the combined output itself are ignored.
func watchCombine(ctx context.Context, c *combine.Combiner, dir string, opts combine.Options, out io.Writer, debounce time.Duration) error {
	if err := executeCombine(ctx, c, dir); err != nil {
		return err
	}

	outputName := opts.OutputName
	if outputName == "" {
		outputName = combine.DefaultOutputName
	}

	fw, err := watcher.New([]string{dir}, watcher.Options{
		Extensions: []string{filepath.Ext(opts.Suffix)},
		Debounce:   debounce,
	})
	if err != nil {
		return fmt.Errorf("failed to watch %s: %w", dir, err)
	}
	defer fw.Stop()

	err = fw.Start(ctx, func(files []string) {
		if !hasMessageFile(files, opts.Suffix, outputName) {
			return
		}
		fw.Pause()
		defer fw.Resume()
		if _, err := c.Run(ctx, dir); err != nil {
			log.Printf("Error: %v", err)
		}
	})
	if err != nil {
		return err
	}

	if !combineQuietFlag {
		fmt.Fprintf(out, "Watching %s (Ctrl+C to stop)\n", dir)
	}
	<-ctx.Done()
	return nil
}

// hasMessageFile reports whether any changed file is a merge input.
func hasMessageFile(files []string, suffix, outputName string) bool {
	for _, f := range files {
		base := filepath.Base(f)
		if base == outputName {
			continue
		}
		if strings.HasSuffix(base, suffix) {
			return true
		}
	}
	return false
}
