package deps

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

const versionTimeout = 5 * time.Second

// Tool describes an external audio binary speechsync shells out to.
type Tool struct {
	Name     string
	Command  string
	Purpose  string
	Optional bool
	// VersionFlag is passed to the binary to prove it starts. Empty skips the run.
	VersionFlag string
}

// FFprobe describes the duration probe used by follow and synthesize.
func FFprobe(command string) Tool {
	return Tool{
		Name:        "FFprobe",
		Command:     command,
		Purpose:     "Measures narration length for follow and synthesize",
		VersionFlag: "-version",
	}
}

// Status reports whether a tool can be used.
type Status struct {
	Tool
	Path      string
	Version   string
	Available bool
	Detail    string
}

// Check resolves each tool on PATH and runs its version flag.
func Check(ctx context.Context, tools ...Tool) []Status {
	results := make([]Status, 0, len(tools))
	for _, tool := range tools {
		tool.Command = strings.TrimSpace(tool.Command)
		tool.Purpose = strings.TrimSpace(tool.Purpose)
		results = append(results, check(ctx, tool))
	}
	return results
}

// Usable reports whether tool resolves and starts.
func Usable(ctx context.Context, tool Tool) bool {
	return check(ctx, tool).Available
}

func check(ctx context.Context, tool Tool) Status {
	status := Status{Tool: tool}
	if tool.Command == "" {
		status.Detail = "command not configured"
		return status
	}
	path, err := exec.LookPath(tool.Command)
	if err != nil {
		status.Detail = fmt.Sprintf("binary %q not found", tool.Command)
		return status
	}
	status.Path = path
	if tool.VersionFlag == "" {
		status.Available = true
		return status
	}

	if ctx == nil {
		ctx = context.Background()
	}
	runCtx, cancel := context.WithTimeout(ctx, versionTimeout)
	defer cancel()
	out, err := exec.CommandContext(runCtx, path, tool.VersionFlag).Output()
	if err != nil {
		status.Detail = fmt.Sprintf("%s %s failed: %v", tool.Command, tool.VersionFlag, err)
		return status
	}
	status.Available = true
	status.Version = parseVersion(string(out))
	return status
}

// parseVersion pulls the release from banners like "ffprobe version 6.1.1 Copyright ...".
func parseVersion(out string) string {
	line, _, _ := strings.Cut(strings.TrimSpace(out), "\n")
	fields := strings.Fields(line)
	for i := 0; i+1 < len(fields); i++ {
		if strings.EqualFold(fields[i], "version") {
			return fields[i+1]
		}
	}
	return strings.TrimSpace(line)
}
