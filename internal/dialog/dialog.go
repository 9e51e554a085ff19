// Package dialog opens the operating system's file and folder choosers by
// shelling out to the platform helper (zenity or kdialog, osascript,
// PowerShell). A cancelled chooser yields an empty path, not an error.
package dialog

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"runtime"
	"strings"
)

// ModPatterns are offered as the default filter in the file chooser.
var ModPatterns = []string{"*.zip", "*.rar", "*.7z", "*.archive"}

type runFunc func(ctx context.Context, name string, args ...string) (string, error)

// Native implements bridge.Picker with OS dialogs.
type Native struct {
	goos     string
	run      runFunc
	lookPath func(string) (string, error)
}

func New() *Native {
	return &Native{goos: runtime.GOOS, run: runCommand, lookPath: exec.LookPath}
}

func (n *Native) PickFile(ctx context.Context) (string, error) {
	return n.pick(ctx, false)
}

func (n *Native) PickFolder(ctx context.Context) (string, error) {
	return n.pick(ctx, true)
}

func (n *Native) pick(ctx context.Context, folder bool) (string, error) {
	name, args, err := n.command(folder)
	if err != nil {
		return "", err
	}
	out, err := n.run(ctx, name, args...)
	if err != nil {
		if cancelled(err) {
			return "", nil
		}
		return "", fmt.Errorf("%s: %w", name, err)
	}
	return strings.TrimRight(out, "\r\n"), nil
}

func (n *Native) command(folder bool) (string, []string, error) {
	switch n.goos {
	case "darwin":
		script := `POSIX path of (choose file with prompt "Select File")`
		if folder {
			script = `POSIX path of (choose folder with prompt "Select Folder")`
		}
		return "osascript", []string{"-e", script}, nil
	case "windows":
		return "powershell", []string{"-NoProfile", "-STA", "-Command", powershellScript(folder)}, nil
	case "linux", "freebsd", "openbsd", "netbsd":
		if _, err := n.lookPath("zenity"); err == nil {
			if folder {
				return "zenity", []string{"--file-selection", "--directory", "--title=Select Folder"}, nil
			}
			return "zenity", []string{"--file-selection", "--title=Select File",
				"--file-filter=Mod archives | " + strings.Join(ModPatterns, " "),
				"--file-filter=All files | *"}, nil
		}
		if _, err := n.lookPath("kdialog"); err == nil {
			if folder {
				return "kdialog", []string{"--getexistingdirectory", ".", "--title", "Select Folder"}, nil
			}
			return "kdialog", []string{"--getopenfilename", ".", strings.Join(ModPatterns, " "), "--title", "Select File"}, nil
		}
		return "", nil, errors.New("no dialog helper found (tried zenity, kdialog)")
	default:
		return "", nil, fmt.Errorf("unsupported OS: %s", n.goos)
	}
}

func powershellScript(folder bool) string {
	if folder {
		return `Add-Type -AssemblyName System.Windows.Forms; ` +
			`$d = New-Object System.Windows.Forms.FolderBrowserDialog; ` +
			`$d.Description = 'Select Folder'; ` +
			`if ($d.ShowDialog() -eq 'OK') { $d.SelectedPath }`
	}
	filter := "Mod archives (" + strings.Join(ModPatterns, ";") + ")|" + strings.Join(ModPatterns, ";") + "|All files (*.*)|*.*"
	return `Add-Type -AssemblyName System.Windows.Forms; ` +
		`$d = New-Object System.Windows.Forms.OpenFileDialog; ` +
		`$d.Title = 'Select File'; $d.Filter = '` + filter + `'; ` +
		`if ($d.ShowDialog() -eq 'OK') { $d.FileName }`
}

// cancelled reports whether a helper exited the way it does when the user
// dismisses the chooser: status 1 for zenity, kdialog and osascript.
func cancelled(err error) bool {
	var ee *exec.ExitError
	return errors.As(err, &ee) && ee.ExitCode() == 1
}

func runCommand(ctx context.Context, name string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" && !cancelled(err) {
			return "", fmt.Errorf("%w: %s", err, msg)
		}
		return "", err
	}
	return stdout.String(), nil
}
