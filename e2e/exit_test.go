//go:build e2e && unix

package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestApplicationExit(t *testing.T) {
	t.Parallel()
	tf := NewTUITest(t)
	defer tf.Cleanup()

	err := tf.StartApp()
	require.NoError(t, err, "Failed to start app")

	// Wait for TUI to initialize and render
	require.True(t, tf.Ready(), "Should receive ready signal")
	require.True(t, tf.SeePlain("Healthy Posts"), "Should show the title")

	// Clear any buffered output first
	tf.Snapshot()

	// Set up exit monitoring before sending 'q'
	done := make(chan error, 1)
	go func() {
		done <- tf.cmd.Wait()
	}()

	t.Logf("Sending 'q' to quit application...")
	tf.Quit()

	select {
	case exitErr := <-done:
		if exitErr == nil {
			t.Logf("Process exited cleanly with 'q' command")
		} else {
			t.Logf("Process exited with 'q' command (exit code: %v)", exitErr)
		}
		return
	case <-time.After(1500 * time.Millisecond):
		// If 'q' didn't work within 1.5 seconds, use Ctrl+C
		t.Logf("'q' didn't work within 1.5 seconds, using Ctrl+C")
		tf.SendCtrlC()
	}

	select {
	case exitErr := <-done:
		t.Logf("Process exited with Ctrl+C (exit code: %v)", exitErr)
	case <-time.After(750 * time.Millisecond):
		t.Error("Application did not exit within total timeout")
		tf.DumpTailOnFail(t, "exit-failure", 4096)
		tf.SendCtrlC()
	}
}

func TestFirstRunWritesConfig(t *testing.T) {
	t.Parallel()
	tf := NewTUITest(t)
	defer tf.Cleanup()

	workspace, err := tf.CreateTestWorkspace()
	require.NoError(t, err, "Failed to create test workspace")

	require.NoError(t, tf.StartApp(), "Failed to start app")
	require.True(t, tf.Ready(), "Should receive ready signal")

	done := make(chan error, 1)
	go func() {
		done <- tf.cmd.Wait()
	}()
	tf.Quit()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("app did not exit after quit")
	}

	// XDG on linux, Application Support on darwin
	candidates := []string{
		filepath.Join(workspace, ".config", "postgrip", "config.toml"),
		filepath.Join(workspace, "Library", "Application Support", "postgrip", "config.toml"),
	}
	var data []byte
	for _, path := range candidates {
		if data, err = os.ReadFile(path); err == nil {
			break
		}
	}
	require.NoError(t, err, "config should be created on first run")
	require.Contains(t, string(data), "jsonplaceholder.typicode.com", "defaults are saved, not env overrides")
}
