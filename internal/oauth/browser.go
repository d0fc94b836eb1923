package oauth

import (
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"runtime"
)

// OpenBrowser opens url in the user's browser. The BROWSER environment
// variable overrides the platform default, which matters on headless
// hosts where the authorize URL has to reach a browser elsewhere.
func OpenBrowser(url string) error {
	var cmd *exec.Cmd

	if browser := os.Getenv("BROWSER"); browser != "" {
		cmd = exec.Command(browser, url)
	} else {
		switch runtime.GOOS {
		case "linux":
			cmd = exec.Command("xdg-open", url)
		case "darwin":
			cmd = exec.Command("open", url)
		case "windows":
			cmd = exec.Command("cmd", "/c", "start", url)
		default:
			return fmt.Errorf("unsupported platform: %s", runtime.GOOS)
		}
	}

	slog.Debug("opening browser", "command", cmd.Path, "url", url)

	// Start without waiting; the browser opens in the background.
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to open browser: %w", err)
	}
	return nil
}
