// Package viewer builds document viewer URLs and hands them to the OS.
package viewer

import (
	"errors"
	"fmt"
	"io"
	"net/url"
	"os/exec"
	"runtime"
	"strconv"
	"strings"

	"docdesk/internal/model"
)

// DefaultBase is used when no viewer base URL is configured.
const DefaultBase = "http://localhost:3000"

type URLs struct {
	Base string
}

func (u URLs) base() string {
	b := strings.TrimRight(strings.TrimSpace(u.Base), "/")
	if b == "" {
		return DefaultBase
	}
	return b
}

func (u URLs) Viewer(d *model.Document) string {
	return u.base() + "/documents/" + url.PathEscape(d.ID)
}

func (u URLs) PDF(d *model.Document) string {
	return u.Viewer(d) + ".pdf"
}

func (u URLs) Text(d *model.Document) string {
	return u.Viewer(d) + ".txt"
}

// Published returns the public embed URL, or "" when the document has none.
func (u URLs) Published(d *model.Document) string {
	return strings.TrimSpace(d.PublishedURL)
}

// Entity points the viewer at one occurrence of an extracted entity.
func (u URLs) Entity(d *model.Document, entityID string, page, offset int) string {
	q := url.Values{}
	q.Set("entity", entityID)
	q.Set("page", strconv.Itoa(page))
	q.Set("offset", strconv.Itoa(offset))
	return u.Viewer(d) + "?" + q.Encode()
}

// Embed returns the HTML snippet that embeds the viewer for d in another page.
func (u URLs) Embed(d *model.Document) string {
	id := "DV-viewer-" + d.ID
	return fmt.Sprintf(`<div id="%s" class="DV-container"></div>
<script src="%s/viewer/loader.js"></script>
<script>
  DV.load("%s.js", {container: "#%s"});
</script>`, id, u.base(), u.Viewer(d), id)
}

// Open launches the platform's URL handler and waits for it to exit.
func Open(u string) error {
	u = strings.TrimSpace(u)
	if u == "" {
		return errors.New("empty url")
	}
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", u)
	case "windows":
		cmd = exec.Command("cmd", "/c", "start", "", u)
	default:
		cmd = exec.Command("xdg-open", u)
	}
	// Keep handler chatter out of the terminal.
	cmd.Stdout = io.Discard
	cmd.Stderr = io.Discard
	if err := cmd.Start(); err != nil {
		return err
	}
	return cmd.Wait()
}
