package pool

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/wricardo/mcp-training/tilematch/game/engine"
)

// ValidationResult captures the outcome of validating a single pool file.
// Errors lists every problem found; Info carries a capacity summary for
// valid files.
type ValidationResult struct {
	File   string
	Valid  bool
	Errors []string
	Info   []string
	Pool   *engine.SymbolPool
}

// ValidateFile loads and checks a pool file without stopping at the first
// problem.
func ValidateFile(path string) ValidationResult {
	result := ValidationResult{
		File:   filepath.Base(path),
		Valid:  true,
		Errors: []string{},
	}

	data, err := os.ReadFile(path)
	if err != nil {
		result.fail("Failed to read file: %v", err)
		return result
	}

	var p engine.SymbolPool
	if err := json.Unmarshal(data, &p); err != nil {
		result.fail("Invalid JSON: %v", err)
		return result
	}
	result.Pool = &p

	if strings.TrimSpace(p.Name) == "" {
		result.fail("name is required")
	}
	if len(p.Symbols) == 0 {
		result.fail("symbols must not be empty")
	}

	first := make(map[string]int, len(p.Symbols))
	for i, sym := range p.Symbols {
		if strings.TrimSpace(sym) == "" {
			result.fail("symbol %d is blank", i)
			continue
		}
		if prev, dup := first[sym]; dup {
			result.fail("symbol %q repeated at %d and %d", sym, prev, i)
			continue
		}
		first[sym] = i
	}

	if result.Valid {
		result.Info = Capacity(&p)
	}
	return result
}

func (r *ValidationResult) fail(format string, args ...any) {
	r.Valid = false
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
}

// Capacity describes the largest grid a pool can fill for common group
// sizes.
func Capacity(p *engine.SymbolPool) []string {
	lines := []string{
		fmt.Sprintf("Name: %s", p.Name),
		fmt.Sprintf("Symbols: %d", p.Len()),
	}
	for group := engine.MinGroupSize; group <= 4; group++ {
		g := p.MaxGrid(group)
		if g == 0 {
			lines = append(lines, fmt.Sprintf("Groups of %d: too few symbols for any grid", group))
			continue
		}
		cfg := engine.Configuration{GridSize: g, GroupSize: group}
		lines = append(lines, fmt.Sprintf("Groups of %d: up to %dx%d (%d symbols, %d unused cells)",
			group, g, g, cfg.UniqueNeeded(), cfg.UnusedCells()))
	}
	return lines
}

// ValidateDir validates every *.json file in dir, in name order.
func ValidateDir(dir string) ([]ValidationResult, error) {
	files, err := filepath.Glob(filepath.Join(dir, "*.json"))
	if err != nil {
		return nil, err
	}
	results := make([]ValidationResult, 0, len(files))
	for _, file := range files {
		results = append(results, ValidateFile(file))
	}
	return results, nil
}

// WriteReport prints one section per result and a closing verdict. It
// reports whether every file was valid.
func WriteReport(w io.Writer, results []ValidationResult) bool {
	allValid := true
	for _, result := range results {
		fmt.Fprintf(w, "\n%s %s\n", strings.Repeat("=", 20), result.File)

		if result.Valid {
			fmt.Fprintln(w, "✅ VALID")
			for _, info := range result.Info {
				fmt.Fprintln(w, "  "+info)
			}
		} else {
			fmt.Fprintln(w, "❌ INVALID")
			allValid = false
			for _, err := range result.Errors {
				fmt.Fprintln(w, "  ❌ "+err)
			}
		}
	}

	fmt.Fprintf(w, "\n%s\n", strings.Repeat("=", 40))
	switch {
	case len(results) == 0:
		fmt.Fprintln(w, "No pool files found")
	case allValid:
		fmt.Fprintln(w, "✅ All pools are valid!")
	default:
		fmt.Fprintln(w, "❌ Some pools have errors")
	}
	return allValid
}
