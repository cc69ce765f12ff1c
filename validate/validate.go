// Command validate checks board preset files (.json and .hcl) in a configs directory.
// It checks:
//   - syntax and required fields
//   - board size limits and an even cell count
//   - a non-empty identity pool without blanks or duplicates
//   - that dealt boards offer an opening move
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/urfave/cli/v3"
	"github.com/wricardo/mahjong-connect/game/config"
	"github.com/wricardo/mahjong-connect/game/engine"
)

// openingDeals is how many seeds are tried for presets without a fixed seed
const openingDeals = 5

// maxLegendIdentities is how many identities text renderers can tell apart
const maxLegendIdentities = 62

// ValidationResult captures the outcome of validating a single file.
// If Valid is true, Errors contains informational messages; otherwise it
// accumulates the validation errors that were found.
type ValidationResult struct {
	File   string
	Valid  bool
	Errors []string
}

func (r *ValidationResult) fail(format string, args ...interface{}) {
	r.Valid = false
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
}

func (r *ValidationResult) note(format string, args ...interface{}) {
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
}

// validateConfig parses a single preset file and checks that it deals playable boards
func validateConfig(filePath string) ValidationResult {
	result := ValidationResult{
		File:   filepath.Base(filePath),
		Valid:  true,
		Errors: []string{},
	}

	cfg, err := config.ParseConfigFile(filePath)
	if err != nil {
		result.fail("%v", err)
		return result
	}

	opening := validateOpening(cfg)
	if !opening.Valid {
		result.Valid = false
	}
	result.Errors = append(result.Errors, opening.Errors...)

	if result.Valid {
		pairs := cfg.Rows * cfg.Cols / 2
		dealt := len(cfg.Identities)
		if dealt > pairs {
			dealt = pairs
		}
		result.note("✓ Name: %s", cfg.Name)
		result.note("✓ Board: %dx%d (%d pairs)", cfg.Rows, cfg.Cols, pairs)
		result.note("✓ Identities: %d in pool, %d dealt", len(cfg.Identities), dealt)
		if len(cfg.Identities) > pairs {
			result.note("⚠ %d identities are never dealt on a board this size", len(cfg.Identities)-pairs)
		}
		if dealt > maxLegendIdentities {
			result.note("⚠ %d dealt identities exceed the %d distinct legend letters", dealt, maxLegendIdentities)
		}
		if cfg.Seed != 0 {
			result.note("✓ Seed: %d", cfg.Seed)
		}
	}

	return result
}

// validateOpening deals the preset and fails when a dealt board has no removable pair.
// A fixed seed is dealt once; otherwise seeds 1..openingDeals are tried.
func validateOpening(cfg *engine.BoardConfig) ValidationResult {
	result := ValidationResult{
		Valid:  true,
		Errors: []string{},
	}

	seeds := []uint64{cfg.Seed}
	if cfg.Seed == 0 {
		seeds = seeds[:0]
		for s := uint64(1); s <= openingDeals; s++ {
			seeds = append(seeds, s)
		}
	}

	stuck := []string{}
	minMoves := -1
	for _, seed := range seeds {
		dealt := *cfg
		dealt.Seed = seed

		eng, err := engine.NewEngine(&dealt)
		if err != nil {
			result.fail("Failed to deal board with seed %d: %v", seed, err)
			return result
		}
		if eng.IsStuck() {
			stuck = append(stuck, fmt.Sprintf("seed %d", seed))
		}
		if moves := eng.AvailableMoves(); minMoves < 0 || moves < minMoves {
			minMoves = moves
		}
	}

	if len(stuck) > 0 {
		result.fail("Opening failure: %d/%d dealt boards have no removable pair (%s)",
			len(stuck), len(seeds), strings.Join(stuck, ", "))
		return result
	}

	result.note("✓ Opening: at least %d removable pairs across %d deals", minMoves, len(seeds))
	return result
}

// presetFiles lists the .json and .hcl files in dir, sorted
func presetFiles(dir string) ([]string, error) {
	var files []string
	for _, pattern := range []string{"*.json", "*.hcl"} {
		matches, err := filepath.Glob(filepath.Join(dir, pattern))
		if err != nil {
			return nil, err
		}
		files = append(files, matches...)
	}
	sort.Strings(files)
	return files, nil
}

// report prints one result per file and returns whether all of them were valid
func report(w io.Writer, files []string) bool {
	allValid := true
	for _, file := range files {
		result := validateConfig(file)

		fmt.Fprintf(w, "\n%s %s\n", strings.Repeat("=", 20), result.File)

		if result.Valid {
			fmt.Fprintln(w, "✅ VALID")
			for _, info := range result.Errors {
				fmt.Fprintln(w, "  "+info)
			}
		} else {
			fmt.Fprintln(w, "❌ INVALID")
			allValid = false
			for _, err := range result.Errors {
				if !strings.HasPrefix(err, "✓") {
					fmt.Fprintln(w, "  ❌ "+err)
				}
			}
		}
	}

	fmt.Fprintf(w, "\n%s\n", strings.Repeat("=", 40))
	if allValid {
		fmt.Fprintln(w, "✅ All presets are valid!")
	} else {
		fmt.Fprintln(w, "❌ Some presets have errors")
	}
	return allValid
}

// main validates the files given as arguments, or every preset in --config-dir,
// and exits with non-zero status if any are invalid.
func main() {
	cmd := &cli.Command{
		Name:      "validate",
		Usage:     "Validate board preset files",
		ArgsUsage: "[file...]",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config-dir", Value: "configs", Usage: "Directory containing board presets", Sources: cli.EnvVars("CONFIG_DIR")},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			files := cmd.Args().Slice()
			if len(files) == 0 {
				var err error
				if files, err = presetFiles(cmd.String("config-dir")); err != nil {
					return cli.Exit(fmt.Sprintf("Error finding preset files: %v", err), 1)
				}
			}
			if len(files) == 0 {
				return cli.Exit("No preset files found", 1)
			}
			if !report(os.Stdout, files) {
				return cli.Exit("", 1)
			}
			return nil
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
