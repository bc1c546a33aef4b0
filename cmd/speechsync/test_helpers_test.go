package main

import (
	"bytes"
	"os"
	"strings"
	"testing"

	"speechsync/internal/config"
	"speechsync/internal/testsupport"
)

const sampleCommentary = `Key Points: Rates held steady. Markets shrugged it off.

Impact Analysis: Borrowers get a pause; savers keep their yields.

Future Outlook: Expect one cut, maybe two, before the year ends!`

type cliTestEnv struct {
	cfg        *config.Config
	tts        *testsupport.TTSServer
	configPath string
}

func setupCLITestEnv(t *testing.T, opts ...testsupport.ConfigOption) *cliTestEnv {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	t.Setenv("SPEECHSYNC_TTS_BASE_URL", "")
	t.Setenv("SPEECHSYNC_API_KEY", "")

	server := testsupport.NewTTSServer(t)
	cfg := testsupport.NewConfig(t, append([]testsupport.ConfigOption{testsupport.WithTTSURL(server.URL)}, opts...)...)
	return &cliTestEnv{
		cfg:        cfg,
		tts:        server,
		configPath: testsupport.WriteConfig(t, cfg),
	}
}

// enableGestureRequirement rewrites the env config so play needs a gesture.
func (env *cliTestEnv) enableGestureRequirement(t *testing.T) {
	t.Helper()
	data, err := os.ReadFile(env.configPath)
	if err != nil {
		t.Fatalf("read config: %v", err)
	}
	content := strings.Replace(string(data), "[playback]\n", "[playback]\nrequire_gesture = true\n", 1)
	if err := os.WriteFile(env.configPath, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
}

func runCLI(t *testing.T, args []string, configPath string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	var flags []string
	if configPath != "" {
		flags = append(flags, "--config", configPath)
	}
	cmd.SetArgs(append(flags, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}
