package main

import (
	"os"
	"strings"

	"docdesk/internal/cli"
)

func isDocID(s string) bool {
	s = strings.TrimSpace(s)
	return strings.HasPrefix(s, "doc-") && len(s) > len("doc-")
}

// rewriteDirectDocLookupArgs turns `docdesk <doc-id>` into
// `docdesk docs show <doc-id>`. Cobra treats the first positional token as a
// subcommand, and persistent flags may come before it.
func rewriteDirectDocLookupArgs(argv []string) []string {
	if len(argv) < 2 {
		return argv
	}

	// Unknown flags are skipped without consuming a value so a doc id is
	// never swallowed.
	valueFlags := map[string]bool{
		"--dir":       true,
		"--account":   true,
		"--format":    true,
		"--log":       true,
		"--log-level": true,
	}

	insert := func(i int) []string {
		out := make([]string, 0, len(argv)+2)
		out = append(out, argv[:i]...)
		out = append(out, "docs", "show")
		return append(out, argv[i:]...)
	}

	for i := 1; i < len(argv); i++ {
		a := strings.TrimSpace(argv[i])
		switch {
		case a == "":
			continue
		case a == "--":
			if i+1 < len(argv) && isDocID(argv[i+1]) {
				return insert(i + 1)
			}
			return argv
		case strings.HasPrefix(a, "-"):
			if !strings.Contains(a, "=") && valueFlags[a] {
				i++
			}
			continue
		case isDocID(a):
			return insert(i)
		default:
			return argv
		}
	}
	return argv
}

func main() {
	os.Args = rewriteDirectDocLookupArgs(os.Args)

	cmd := cli.NewRootCmd()
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
