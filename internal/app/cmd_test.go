package app

import (
	"bytes"
	"strings"
	"testing"
)

func TestParseCommand(t *testing.T) {
	tests := []struct {
		args     []string
		want     Command
		wantPort string
	}{
		{nil, CommandServe, ""},
		{[]string{"serve"}, CommandServe, ""},
		{[]string{"migrate"}, CommandMigrate, ""},
		{[]string{"healthcheck"}, CommandHealthcheck, ""},
		{[]string{"healthcheck", "--port", "8080"}, CommandHealthcheck, "8080"},
		{[]string{"--verbose"}, CommandServe, ""},
	}

	for _, tt := range tests {
		got, err := ParseCommand(tt.args)
		if err != nil {
			t.Fatalf("ParseCommand(%v) error = %v", tt.args, err)
		}
		if got.Command != tt.want || got.Port != tt.wantPort {
			t.Errorf("ParseCommand(%v) = %+v, want command %q port %q", tt.args, got, tt.want, tt.wantPort)
		}
	}
}

func TestParseCommand_Unknown(t *testing.T) {
	_, err := ParseCommand([]string{"worker"})
	if err == nil {
		t.Fatal("expected error for unknown command")
	}
	if !strings.Contains(err.Error(), "healthcheck, migrate, serve") {
		t.Errorf("error should list available commands, got %q", err.Error())
	}
}

func TestParseCommand_BadHealthcheckFlag(t *testing.T) {
	if _, err := ParseCommand([]string{"healthcheck", "--nope"}); err == nil {
		t.Fatal("expected error for unknown flag")
	}
}

func TestHealthcheckPort(t *testing.T) {
	t.Setenv("PORT", "")
	if got := (Invocation{}).healthcheckPort(); got != "5000" {
		t.Errorf("default port = %q, want 5000", got)
	}

	t.Setenv("PORT", "7000")
	if got := (Invocation{}).healthcheckPort(); got != "7000" {
		t.Errorf("env port = %q, want 7000", got)
	}
	if got := (Invocation{Port: "9000"}).healthcheckPort(); got != "9000" {
		t.Errorf("flag port = %q, want 9000", got)
	}
}

func TestUsage(t *testing.T) {
	var buf bytes.Buffer
	Usage(&buf)
	for _, name := range []string{"serve", "migrate", "healthcheck"} {
		if !strings.Contains(buf.String(), name) {
			t.Errorf("usage should mention %q:\n%s", name, buf.String())
		}
	}
}
