package deps

import (
	"os/exec"
	"testing"

	"github.com/leonardotrapani/profanity-silencer/internal/testutil"
)

func TestCheckWhisperCli(t *testing.T) {
	status := CheckWhisperCli()

	if status.Name != WhisperCli {
		t.Errorf("Name = %q, want %q", status.Name, WhisperCli)
	}
	// behavior depends on system - just verify no panic and correct structure
	if status.Installed {
		if status.Path == "" {
			t.Error("installed but path empty")
		}
		if status.Err() != nil {
			t.Errorf("installed but Err() = %v", status.Err())
		}
	} else {
		if status.Path != "" {
			t.Error("not installed but path non-empty")
		}
		if status.Err() == nil {
			t.Error("not installed but Err() is nil")
		}
	}
}

func TestCheckFFmpeg_Installed(t *testing.T) {
	if _, err := exec.LookPath("ffmpeg"); err != nil {
		t.Skip("ffmpeg not installed, can't test installed case")
	}

	status := CheckFFmpeg()
	if !status.Installed {
		t.Error("ffmpeg in PATH but Installed=false")
	}
	if status.Path == "" {
		t.Error("ffmpeg installed but path empty")
	}
	if status.Version == "" {
		t.Error("ffmpeg installed but version empty")
	}
}

func TestCheck_UnknownBinary(t *testing.T) {
	status := check("profanity-silencer-no-such-binary", "--version")
	if status.Installed || status.Path != "" || status.Version != "" {
		t.Errorf("unexpected status for missing binary: %+v", status)
	}
	if status.Err() == nil {
		t.Error("expected error for missing binary")
	}
}

func TestAll(t *testing.T) {
	all := All()
	if len(all) != 2 || all[0].Name != FFmpeg || all[1].Name != WhisperCli {
		t.Errorf("All() = %+v", all)
	}
}

func TestCheck_ReadsFirstVersionLine(t *testing.T) {
	dir := t.TempDir()
	testutil.WriteScript(t, dir, FFmpeg, "#!/bin/sh\necho 'ffmpeg version 6.1-fake Copyright'\necho 'built with gcc'\n")
	testutil.PrependPath(t, dir)

	status := CheckFFmpeg()
	if !status.Installed {
		t.Fatal("fake ffmpeg on PATH but Installed=false")
	}
	if status.Version != "ffmpeg version 6.1-fake Copyright" {
		t.Errorf("Version = %q", status.Version)
	}
}
