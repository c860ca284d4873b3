package logutil

import (
	"net/url"
	"strings"
	"testing"
)

func TestIsSensitiveLogField(t *testing.T) {
	t.Parallel()

	sensitive := []string{"password", "Password-Verify", "userid_secret", "Authorization", "api_key", "credential"}
	for _, key := range sensitive {
		if !IsSensitiveLogField(key) {
			t.Errorf("expected %q to be sensitive", key)
		}
	}

	benign := []string{"username", "discover_type", "name", "zone"}
	for _, key := range benign {
		if IsSensitiveLogField(key) {
			t.Errorf("expected %q to be benign", key)
		}
	}
}

func TestFormatFormForLog_RedactsCredentialFields(t *testing.T) {
	t.Parallel()

	form := url.Values{
		"discover_type":   {"Amazon"},
		"username":        {"admin"},
		"password":        {"topsecret"},
		"password_verify": {"topsecret"},
	}

	out := FormatFormForLog(form)
	if strings.Contains(out, "topsecret") {
		t.Fatalf("secret leaked into log output: %s", out)
	}
	if !strings.Contains(out, `username="admin"`) {
		t.Errorf("expected username to survive redaction, got: %s", out)
	}
	if !strings.Contains(out, `password="[REDACTED]"`) {
		t.Errorf("expected password to be redacted, got: %s", out)
	}
}

func TestFormatFormForLog_Empty(t *testing.T) {
	t.Parallel()
	if got := FormatFormForLog(nil); got != "{}" {
		t.Fatalf("expected {}, got %q", got)
	}
}

func TestTruncateForLog(t *testing.T) {
	t.Parallel()

	if got := TruncateForLog("  line1\nline2  ", 0); got != "line1\\nline2" {
		t.Errorf("unexpected normalization: %q", got)
	}
	long := strings.Repeat("x", 50)
	got := TruncateForLog(long, 10)
	if !strings.HasSuffix(got, "... [truncated]") || !strings.HasPrefix(got, "xxxxxxxxxx") {
		t.Errorf("unexpected truncation: %q", got)
	}
}
