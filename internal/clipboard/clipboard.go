// Package clipboard provides cross-platform clipboard support for text and
// PNG images.
package clipboard

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"strings"

	atotto "github.com/atotto/clipboard"
)

// ErrImageUnsupported is returned when no image-capable clipboard tool is found.
var ErrImageUnsupported = errors.New("image clipboard not supported on this system")

// Writer puts text or images on a clipboard.
type Writer interface {
	WriteText(text string) error
	WriteImage(png []byte) error
}

// System writes to the system clipboard.
type System struct{}

// WriteText copies text to the system clipboard.
func (System) WriteText(text string) error {
	return Write(text)
}

// WriteImage copies a PNG image to the system clipboard.
func (System) WriteImage(png []byte) error {
	return WriteImage(png)
}

// Write copies text to the system clipboard.
func Write(text string) error {
	if atotto.Unsupported {
		return errors.New("clipboard not supported on this system")
	}
	return atotto.WriteAll(text)
}

// WriteImage copies a PNG image to the system clipboard.
func WriteImage(png []byte) error {
	switch runtime.GOOS {
	case "darwin":
		return writeImageFile(png, func(path string) *exec.Cmd {
			return exec.Command("osascript", "-e", appleScriptImage(path))
		})
	case "windows":
		return writeImageFile(png, func(path string) *exec.Cmd {
			return exec.Command("powershell", "-NoProfile", "-STA", "-Command", powerShellImage(path))
		})
	}

	// Linux and other unixes: Wayland first, then X11
	var cmd *exec.Cmd
	if _, err := exec.LookPath("wl-copy"); err == nil && os.Getenv("WAYLAND_DISPLAY") != "" {
		cmd = exec.Command("wl-copy", "--type", "image/png")
	} else if _, err := exec.LookPath("xclip"); err == nil {
		cmd = exec.Command("xclip", "-selection", "clipboard", "-t", "image/png")
	} else {
		return ErrImageUnsupported
	}

	cmd.Stdin = bytes.NewReader(png)
	return cmd.Run()
}

// appleScriptImage returns an osascript program that loads the PNG at path.
func appleScriptImage(path string) string {
	quoted := strings.NewReplacer(`\`, `\\`, `"`, `\"`).Replace(path)
	return `set the clipboard to (read (POSIX file "` + quoted + `") as «class PNGf»)`
}

// powerShellImage returns a PowerShell command that loads the PNG at path.
// Single-quoted PowerShell strings escape a quote by doubling it.
func powerShellImage(path string) string {
	quoted := strings.ReplaceAll(path, "'", "''")
	return `Add-Type -AssemblyName System.Windows.Forms; ` +
		`[System.Windows.Forms.Clipboard]::SetImage([System.Drawing.Image]::FromFile('` + quoted + `'))`
}

// writeImageFile stages png in a temp file for tools that read from a path.
func writeImageFile(png []byte, command func(path string) *exec.Cmd) error {
	f, err := os.CreateTemp("", "freqtab-*.png")
	if err != nil {
		return fmt.Errorf("creating temp image: %w", err)
	}
	defer os.Remove(f.Name())

	if _, err := f.Write(png); err != nil {
		f.Close()
		return fmt.Errorf("writing temp image: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("closing temp image: %w", err)
	}

	if out, err := command(f.Name()).CombinedOutput(); err != nil {
		return fmt.Errorf("copying image: %w: %s", err, bytes.TrimSpace(out))
	}
	return nil
}

// Available checks if text clipboard functionality is available.
func Available() bool {
	return !atotto.Unsupported
}

// ImageAvailable checks if image clipboard functionality is available.
func ImageAvailable() bool {
	switch runtime.GOOS {
	case "darwin":
		_, err := exec.LookPath("osascript")
		return err == nil
	case "windows":
		_, err := exec.LookPath("powershell")
		return err == nil
	default:
		if _, err := exec.LookPath("wl-copy"); err == nil && os.Getenv("WAYLAND_DISPLAY") != "" {
			return true
		}
		_, err := exec.LookPath("xclip")
		return err == nil
	}
}

// Memory is an in-process clipboard. It is useful when no system clipboard
// exists and in tests.
type Memory struct {
	Text  string
	Image []byte

	// Err, when set, is returned by every write.
	Err error
}

// WriteText stores text.
func (m *Memory) WriteText(text string) error {
	if m.Err != nil {
		return m.Err
	}
	m.Text = text
	return nil
}

// WriteImage stores a copy of png.
func (m *Memory) WriteImage(png []byte) error {
	if m.Err != nil {
		return m.Err
	}
	m.Image = append([]byte(nil), png...)
	return nil
}
