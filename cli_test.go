package tagver

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/cli/safeexec"

	"github.com/linyows/tagver/semver"
)

func TestRunCLI(t *testing.T) {
	tests := []struct {
		name         string
		args         []string
		expectExit   int
		expectOutput string
		expectError  string
	}{
		{
			name:         "help flag",
			args:         []string{"--help"},
			expectExit:   ExitErr,
			expectOutput: "Usage: tagver",
		},
		{
			name:        "version flag",
			args:        []string{"--version"},
			expectExit:  ExitOK,
			expectError: "tagver version",
		},
		{
			name:         "no command",
			args:         []string{},
			expectExit:   ExitErr,
			expectOutput: "Usage: tagver",
		},
		{
			name:        "invalid command",
			args:        []string{"destroy"},
			expectExit:  ExitErr,
			expectError: "Error: command is not available",
		},
		{
			name:        "add without arguments",
			args:        []string{"add"},
			expectExit:  ExitErr,
			expectError: "Error: add needs <alias> <path> <url>",
		},
		{
			name:        "bump without alias",
			args:        []string{"bump"},
			expectExit:  ExitErr,
			expectError: "Error: bump needs <alias>",
		},
		{
			name:        "bump with conflicting fields",
			args:        []string{"--major", "--minor", "bump", "app"},
			expectExit:  ExitErr,
			expectError: "only one of --major, --minor or --patch",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := safeexec.LookPath("git"); err != nil {
				t.Skipf("git is not available: %v", err)
			}
			t.Setenv("TAGVER_REGISTRY", "file://"+filepath.Join(t.TempDir(), "projects")+"?create=true")

			var outBuf, errBuf bytes.Buffer
			exitCode := RunCLI(&outBuf, &errBuf, tt.args)

			if exitCode != tt.expectExit {
				t.Errorf("expected exit code %d, got %d", tt.expectExit, exitCode)
			}
			if tt.expectOutput != "" && !strings.Contains(outBuf.String(), tt.expectOutput) {
				t.Errorf("expected output to contain %q, got %q", tt.expectOutput, outBuf.String())
			}
			if tt.expectError != "" && !strings.Contains(errBuf.String(), tt.expectError) {
				t.Errorf("expected error to contain %q, got %q", tt.expectError, errBuf.String())
			}
		})
	}
}

func TestRunCLIAddAndList(t *testing.T) {
	if _, err := safeexec.LookPath("git"); err != nil {
		t.Skipf("git is not available: %v", err)
	}
	t.Setenv("TAGVER_REGISTRY", "file://"+filepath.Join(t.TempDir(), "projects")+"?create=true")

	// an existing path skips the clone, so no network is touched
	path := t.TempDir()

	var outBuf, errBuf bytes.Buffer
	if code := RunCLI(&outBuf, &errBuf, []string{"add", "app", path, "https://github.com/linyows/app"}); code != ExitOK {
		t.Fatalf("add exited %d: %s", code, errBuf.String())
	}

	outBuf.Reset()
	if code := RunCLI(&outBuf, &errBuf, []string{"list"}); code != ExitOK {
		t.Fatalf("list exited %d: %s", code, errBuf.String())
	}
	if !strings.Contains(outBuf.String(), "app") || !strings.Contains(outBuf.String(), path) {
		t.Errorf("list output = %q", outBuf.String())
	}
}

func TestCLIField(t *testing.T) {
	tests := []struct {
		name    string
		cli     CLI
		want    semver.Field
		wantErr bool
	}{
		{name: "none", cli: CLI{}, want: semver.FieldNone},
		{name: "major", cli: CLI{Major: true}, want: semver.FieldMajor},
		{name: "minor", cli: CLI{Minor: true}, want: semver.FieldMinor},
		{name: "patch", cli: CLI{Patch: true}, want: semver.FieldPatch},
		{name: "conflict", cli: CLI{Major: true, Patch: true}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.cli.field()
			if (err != nil) != tt.wantErr {
				t.Fatalf("field() error = %v, wantErr %t", err, tt.wantErr)
			}
			if err == nil && got != tt.want {
				t.Errorf("field() = %v, want %v", got, tt.want)
			}
		})
	}
}
