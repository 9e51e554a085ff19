package dialog

import (
	"context"
	"errors"
	"os/exec"
	"strings"
	"testing"
)

type call struct {
	name string
	args []string
}

func fakeNative(goos string, have map[string]bool, out string, err error) (*Native, *[]call) {
	var calls []call
	n := &Native{
		goos: goos,
		run: func(_ context.Context, name string, args ...string) (string, error) {
			calls = append(calls, call{name, args})
			return out, err
		},
		lookPath: func(bin string) (string, error) {
			if have[bin] {
				return "/usr/bin/" + bin, nil
			}
			return "", exec.ErrNotFound
		},
	}
	return n, &calls
}

func TestPickFileLinuxPrefersZenity(t *testing.T) {
	n, calls := fakeNative("linux", map[string]bool{"zenity": true, "kdialog": true}, "/home/u/Awesome.zip\n", nil)
	got, err := n.PickFile(context.Background())
	if err != nil {
		t.Fatalf("PickFile: %v", err)
	}
	if got != "/home/u/Awesome.zip" {
		t.Errorf("path=%q", got)
	}
	if len(*calls) != 1 || (*calls)[0].name != "zenity" {
		t.Fatalf("calls=%+v", *calls)
	}
	if !strings.Contains(strings.Join((*calls)[0].args, " "), "*.archive") {
		t.Errorf("file filter missing: %v", (*calls)[0].args)
	}
}

func TestPickFolderFallsBackToKdialog(t *testing.T) {
	n, calls := fakeNative("linux", map[string]bool{"kdialog": true}, "/games/cp2077\n", nil)
	got, err := n.PickFolder(context.Background())
	if err != nil || got != "/games/cp2077" {
		t.Fatalf("PickFolder=%q %v", got, err)
	}
	if (*calls)[0].name != "kdialog" || (*calls)[0].args[0] != "--getexistingdirectory" {
		t.Errorf("calls=%+v", *calls)
	}
}

func TestNoHelperIsAnError(t *testing.T) {
	n, _ := fakeNative("linux", nil, "", nil)
	if _, err := n.PickFile(context.Background()); err == nil {
		t.Error("expected error without zenity/kdialog")
	}
	n, _ = fakeNative("plan9", nil, "", nil)
	if _, err := n.PickFolder(context.Background()); err == nil {
		t.Error("expected unsupported OS error")
	}
}

func TestCommandsPerPlatform(t *testing.T) {
	n, _ := fakeNative("darwin", nil, "", nil)
	name, args, err := n.command(true)
	if err != nil || name != "osascript" || !strings.Contains(args[1], "choose folder") {
		t.Errorf("darwin folder: %s %v %v", name, args, err)
	}
	n, _ = fakeNative("windows", nil, "", nil)
	name, args, err = n.command(false)
	if err != nil || name != "powershell" || !strings.Contains(args[len(args)-1], "OpenFileDialog") {
		t.Errorf("windows file: %s %v %v", name, args, err)
	}
}

func TestOtherRunFailuresPropagate(t *testing.T) {
	n, _ := fakeNative("darwin", nil, "", errors.New("exec failed"))
	if _, err := n.PickFile(context.Background()); err == nil || !strings.Contains(err.Error(), "osascript") {
		t.Errorf("expected wrapped error, got %v", err)
	}
}

func TestExitStatusOneMeansCancelled(t *testing.T) {
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}
	_, err := runCommand(context.Background(), "sh", "-c", "exit 1")
	if !cancelled(err) {
		t.Fatalf("exit 1 should read as cancelled, got %v", err)
	}
	_, err = runCommand(context.Background(), "sh", "-c", "echo boom >&2; exit 2")
	if cancelled(err) || err == nil || !strings.Contains(err.Error(), "boom") {
		t.Errorf("exit 2 should be an error carrying stderr, got %v", err)
	}
}
