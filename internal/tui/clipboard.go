package tui

import (
	"errors"
	"fmt"
	"os/exec"
	"runtime"
	"strings"
)

// copyToClipboard is swapped out in tests.
var copyToClipboard = systemClipboard

type clipboardTool struct {
	name string
	args []string
}

// clipboardTools lists the helpers tried in order for goos.
func clipboardTools(goos string) []clipboardTool {
	switch goos {
	case "darwin":
		return []clipboardTool{{name: "pbcopy"}}
	case "windows":
		return []clipboardTool{
			{name: "cmd", args: []string{"/c", "clip"}},
			{name: "powershell", args: []string{"-NoProfile", "-Command", "Set-Clipboard"}},
		}
	default:
		return []clipboardTool{
			{name: "wl-copy"},
			{name: "xclip", args: []string{"-selection", "clipboard"}},
			{name: "xsel", args: []string{"--clipboard", "--input"}},
		}
	}
}

// systemClipboard pipes s into the first clipboard helper that works. Embed
// snippets are HTML, so line endings are normalised first.
func systemClipboard(s string) error {
	s = strings.ReplaceAll(s, "\r\n", "\n")

	var errs []error
	for _, tool := range clipboardTools(runtime.GOOS) {
		if _, err := exec.LookPath(tool.name); err != nil {
			continue
		}
		cmd := exec.Command(tool.name, tool.args...)
		cmd.Stdin = strings.NewReader(s)
		if err := cmd.Run(); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", tool.name, err))
			continue
		}
		return nil
	}
	if len(errs) == 0 {
		return errors.New("no clipboard tool found")
	}
	return errors.Join(errs...)
}
