package capture

import (
	"fmt"
	"os"
	"strings"
)

// ExpandList resolves the capture path arguments. A single argument ending
// in '.txt' is treated as a newline-delimited list of capture paths and
// replaced with its contents; anything else is returned unchanged. Blank
// lines are dropped.
func ExpandList(args []string) ([]string, error) {
	if len(args) != 1 || !strings.HasSuffix(args[0], ".txt") {
		return args, nil
	}

	raw, err := os.ReadFile(args[0])
	if err != nil {
		return nil, fmt.Errorf("reading capture list '%s': %w", args[0], err)
	}

	var paths []string
	for _, line := range strings.Split(string(raw), "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			paths = append(paths, line)
		}
	}
	return paths, nil
}
