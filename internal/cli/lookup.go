package cli

import (
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/mvp-joe/enumgen/internal/enumscan"
	"github.com/mvp-joe/enumgen/internal/lookup"
	"github.com/spf13/cobra"
)

var lookupTableFlag string

// ErrUnresolved indicates at least one value had no entry in the table
var ErrUnresolved = errors.New("unresolved enum values")

// lookupCmd represents the lookup command
var lookupCmd = &cobra.Command{
	Use:   "lookup <enum> <value>...",
	Short: "Resolve enum values to member names",
	Long: `Lookup reads a table written by "enumgen extract" and prints the member
name for each value, one per line.

Type names may carry a trailing "[]" (arrays) or a _Serializable suffix; both
resolve against the matching base enum.

Examples:
  enumgen lookup via.gui.Anchor 0 4
  enumgen lookup via.gui.Anchor_Serializable[] 0x4 --table gen/enums.json
`,
	Args: cobra.MinimumNArgs(2),
	RunE: runLookup,
}

func init() {
	rootCmd.AddCommand(lookupCmd)
	lookupCmd.Flags().StringVarP(&lookupTableFlag, "table", "t", "", "Enum table to read (default from config)")
}

func runLookup(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	table := cfg.Lookup.EnumFile
	if lookupTableFlag != "" {
		table = lookupTableFlag
	}
	if table == "" {
		return fmt.Errorf("%w: no enum table configured, pass --table", ErrArgs)
	}

	r, err := lookup.NewResolver(cfg.Lookup.CacheSize)
	if err != nil {
		return err
	}
	defer r.Close()

	return executeLookup(cmd.OutOrStdout(), r, table, args[0], args[1:])
}

// executeLookup prints one line per value. Unknown values are reported
// inline and turn into ErrUnresolved once every value has been tried.
func executeLookup(out io.Writer, r *lookup.Resolver, table, enum string, values []string) error {
	missing := 0
	for _, v := range values {
		name, err := r.Resolve(table, enum, tableKey(v))
		switch {
		case errors.Is(err, lookup.ErrNotFound):
			fmt.Fprintf(out, "%s\t<unknown>\n", v)
			missing++
		case err != nil:
			return err
		default:
			fmt.Fprintf(out, "%s\t%s\n", v, name)
		}
	}
	if missing > 0 {
		return fmt.Errorf("%w: %d of %d", ErrUnresolved, missing, len(values))
	}
	return nil
}

// tableKey rewrites hex literals to the decimal keys tables are written with.
func tableKey(value string) string {
	n, err := enumscan.ParseLiteral(value)
	if err != nil {
		return value
	}
	return strconv.FormatUint(n, 10)
}
