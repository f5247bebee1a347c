package internal

import (
	"strings"
	"testing"

	"github.com/starford/fms/internal/models"
)

func TestAuthConfig_DisabledMode(t *testing.T) {
	cfg := AuthConfig{Mode: "disabled", Token: ""}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("disabled mode should pass: %v", err)
	}
	if cfg.AuthEnabled() {
		t.Error("disabled mode should not be enabled")
	}
}

func TestAuthConfig_EmptyModeDefaultsDisabled(t *testing.T) {
	cfg := AuthConfig{Mode: "", Token: ""}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("empty mode should default to disabled: %v", err)
	}
	if cfg.Mode != AuthModeDisabled {
		t.Errorf("mode = %q, want %q", cfg.Mode, AuthModeDisabled)
	}
}

func TestAuthConfig_TokenModeValid(t *testing.T) {
	cfg := AuthConfig{Mode: "token", Token: "mysecret"}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("token mode with token should pass: %v", err)
	}
	if !cfg.AuthEnabled() {
		t.Error("token mode should be enabled")
	}
}

func TestAuthConfig_TokenModeEmptyToken(t *testing.T) {
	cfg := AuthConfig{Mode: "token", Token: ""}
	err := cfg.Validate()
	if err == nil {
		t.Fatal("token mode with empty token should fail")
	}
	if !strings.Contains(err.Error(), "token is empty") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestAuthConfig_InvalidMode(t *testing.T) {
	cfg := AuthConfig{Mode: "magic", Token: "x"}
	err := cfg.Validate()
	if err == nil {
		t.Fatal("invalid mode should fail validation")
	}
}

func TestFullConfig_AuthValidationCalled(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Auth.Mode = "token"
	cfg.Auth.Token = ""
	err := cfg.Validate()
	if err == nil {
		t.Fatal("full config validate should catch auth error")
	}
}

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := NewDefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config should validate: %v", err)
	}
	if cfg.Remote.Enabled {
		t.Error("remote should be off by default")
	}
}

func TestApplyEnv(t *testing.T) {
	t.Setenv(EnvUseRemote, "true")
	t.Setenv(EnvAPIBaseURL, "https://api.example.com/api")
	t.Setenv(EnvAIAgentURL, "https://agent.example.com")

	cfg := NewDefaultConfig()
	if err := cfg.ApplyEnv(); err != nil {
		t.Fatalf("ApplyEnv: %v", err)
	}
	if !cfg.Remote.Enabled {
		t.Error("FMS_USE_REMOTE=true should enable remote")
	}
	if cfg.Remote.BaseURL != "https://api.example.com/api" {
		t.Errorf("base url = %q", cfg.Remote.BaseURL)
	}
	if cfg.Remote.AIAgentURL != "https://agent.example.com" {
		t.Errorf("agent url = %q", cfg.Remote.AIAgentURL)
	}
}

func TestApplyEnvRejectsBadBool(t *testing.T) {
	t.Setenv(EnvUseRemote, "sometimes")
	if err := NewDefaultConfig().ApplyEnv(); err == nil {
		t.Fatal("expected error for non-boolean FMS_USE_REMOTE")
	}
}

func TestRemoteConfig_Validation(t *testing.T) {
	cases := []struct {
		name string
		cfg  RemoteConfig
		ok   bool
	}{
		{"default", NewDefaultConfig().Remote, true},
		{"relative base", RemoteConfig{BaseURL: "/api"}, false},
		{"empty base", RemoteConfig{}, false},
		{"bad agent", RemoteConfig{BaseURL: "http://x/api", AIAgentURL: "agent"}, false},
		{"rate without burst", RemoteConfig{BaseURL: "http://x/api", RateLimit: 5}, false},
		{"rate with burst", RemoteConfig{BaseURL: "http://x/api", RateLimit: 5, Burst: 2}, true},
	}
	for _, tc := range cases {
		err := tc.cfg.Validate()
		if (err == nil) != tc.ok {
			t.Errorf("%s: err = %v, want ok=%v", tc.name, err, tc.ok)
		}
	}
}

func TestPolicyConfig(t *testing.T) {
	cfg := PolicyConfig{ClusterThreshold: "extreme"}
	if err := cfg.Validate(); err == nil {
		t.Error("unknown threshold should fail")
	}

	cfg = PolicyConfig{ClusterMinStores: 2, ClusterThreshold: "CRITICAL"}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}
	p := cfg.InsightPolicy()
	if p.MinStores != 2 || p.Threshold != models.RiskCritical {
		t.Errorf("policy = %+v", p)
	}
}
