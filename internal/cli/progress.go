package cli

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/mvp-joe/enumgen/internal/combine"
	"github.com/schollz/progressbar/v3"
)

// CombineProgressReporter implements combine.Reporter with a progress bar.
type CombineProgressReporter struct {
	out       io.Writer
	quiet     bool
	startTime time.Time

	mu      sync.Mutex
	fileBar *progressbar.ProgressBar
}

// NewCombineProgressReporter creates a reporter writing to out.
func NewCombineProgressReporter(out io.Writer, quiet bool) *CombineProgressReporter {
	return &CombineProgressReporter{
		out:   out,
		quiet: quiet,
	}
}

func (c *CombineProgressReporter) OnStart(totalFiles int) {
	if c.quiet {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	c.startTime = time.Now()
	out := c.out
	c.fileBar = progressbar.NewOptions(totalFiles,
		progressbar.OptionSetWriter(out),
		progressbar.OptionSetDescription("Merging files"),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowCount(),
		progressbar.OptionShowIts(),
		progressbar.OptionSetItsString("files/s"),
		progressbar.OptionThrottle(65*time.Millisecond),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionOnCompletion(func() {
			fmt.Fprintln(out)
		}),
	)
}

// OnFile is called from decoder goroutines.
func (c *CombineProgressReporter) OnFile(path string, err error) {
	if c.quiet {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.fileBar != nil {
		c.fileBar.Add(1)
	}
}

func (c *CombineProgressReporter) OnComplete(report *combine.Report) {
	c.mu.Lock()
	if c.fileBar != nil {
		c.fileBar.Finish()
		c.fileBar = nil
	}
	c.mu.Unlock()

	if c.quiet {
		return
	}

	fmt.Fprintf(c.out, "✓ Merged %s of %s files in %.1fs\n",
		formatNumber(report.Merged), formatNumber(len(report.Files)), time.Since(c.startTime).Seconds())
	fmt.Fprintf(c.out, "  msgs:         %s\n", formatNumber(report.Msgs))
	fmt.Fprintf(c.out, "  name_to_uuid: %s\n", formatNumber(report.NameToUUID))
	if report.Overrides > 0 {
		fmt.Fprintf(c.out, "  overridden:   %s\n", formatNumber(report.Overrides))
	}
	for _, f := range report.Failures {
		fmt.Fprintf(c.out, "  ✗ %s: %v\n", f.Path, f.Err)
	}
	for _, w := range report.Warnings {
		fmt.Fprintf(c.out, "  ! %s\n", w)
	}
	fmt.Fprintf(c.out, "Combined JSON saved to %s\n", report.OutputPath)
}

// formatNumber formats integer with thousand separators.
// Examples: 1234 -> "1,234", 1234567 -> "1,234,567"
func formatNumber(n int) string {
	if n < 0 {
		return "-" + formatNumber(-n)
	}
	if n < 1000 {
		return fmt.Sprintf("%d", n)
	}

	str := fmt.Sprintf("%d", n)
	var result string
	for i, c := range str {
		if i > 0 && (len(str)-i)%3 == 0 {
			result += ","
		}
		result += string(c)
	}
	return result
}
