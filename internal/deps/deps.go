package deps

import (
	"fmt"
	"os/exec"
	"strings"
)

// Binary names looked up on PATH.
const (
	FFmpeg     = "ffmpeg"
	WhisperCli = "whisper-cli"
)

// Status represents the installation status of an external binary
type Status struct {
	Name      string
	Installed bool
	Path      string
	Version   string
}

// Err returns a descriptive error when the binary is missing, nil otherwise.
func (s Status) Err() error {
	if s.Installed {
		return nil
	}
	return fmt.Errorf("%s not found in PATH", s.Name)
}

// CheckWhisperCli checks if whisper-cli is installed and returns its status
func CheckWhisperCli() Status {
	// whisper-cli --version prints the build info on its first line
	return check(WhisperCli, "--version")
}

// CheckFFmpeg checks if ffmpeg is installed and returns its status
func CheckFFmpeg() Status {
	return check(FFmpeg, "-version")
}

// All returns the status of every binary the tool may shell out to.
func All() []Status {
	return []Status{CheckFFmpeg(), CheckWhisperCli()}
}

func check(name, versionFlag string) Status {
	path, err := exec.LookPath(name)
	if err != nil {
		return Status{Name: name}
	}

	status := Status{
		Name:      name,
		Installed: true,
		Path:      path,
	}

	output, err := exec.Command(path, versionFlag).CombinedOutput()
	if err == nil {
		line, _, _ := strings.Cut(string(output), "\n")
		status.Version = strings.TrimSpace(line)
	}

	return status
}
