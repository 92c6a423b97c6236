package shared

import (
	"fmt"
	"net/url"
	"os/exec"
	"runtime"
	"strconv"
	"strings"
)

var getRuntime = func() string { return runtime.GOOS }

// startCommand runs a command without waiting for it; replaced in tests.
var startCommand = func(name string, args ...string) error {
	return exec.Command(name, args...).Start()
}

var openers = map[string][]string{
	"darwin":  {"open"},
	"linux":   {"xdg-open"},
	"windows": {"cmd", "/c", "start"},
}

// OpenBrowser opens the default system browser to the specified URL.
//
// Supports macOS, Linux, and Windows platforms.
func OpenBrowser(target string) error {
	rt := getRuntime()
	opener, ok := openers[rt]
	if !ok {
		return fmt.Errorf("unsupported platform: %s", rt)
	}

	args := append(append([]string{}, opener[1:]...), target)
	if err := startCommand(opener[0], args...); err != nil {
		return fmt.Errorf("failed to open browser: %w", err)
	}

	return nil
}

// SongPageURL builds the web frontend URL for a song, e.g. http://localhost:3000/song/12.
func SongPageURL(webURL string, songID int) (string, error) {
	if webURL == "" {
		return "", fmt.Errorf("%w: backend.web_url is not set", ErrMissingConfig)
	}
	base, err := url.Parse(strings.TrimRight(webURL, "/"))
	if err != nil {
		return "", fmt.Errorf("%w: backend.web_url: %v", ErrInvalidConfig, err)
	}
	return base.JoinPath("song", strconv.Itoa(songID)).String(), nil
}
