package config

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/costwatch/costwatch/internal/core"
)

func TestSaveAndLoadCredentials(t *testing.T) {
	path := filepath.Join(t.TempDir(), "credentials.json")

	if err := SaveCredentialTo(path, core.ProviderOpenAI, "sk-test-key-123"); err != nil {
		t.Fatalf("SaveCredentialTo error: %v", err)
	}
	if err := SaveCredentialTo(path, core.ProviderAnthropic, "sk-ant-456"); err != nil {
		t.Fatalf("SaveCredentialTo error: %v", err)
	}

	creds, err := LoadCredentialsFrom(path)
	if err != nil {
		t.Fatalf("LoadCredentialsFrom error: %v", err)
	}

	if len(creds.Keys) != 2 {
		t.Fatalf("keys count = %d, want 2", len(creds.Keys))
	}
	if creds.Keys["openai"] != "sk-test-key-123" {
		t.Errorf("openai key = %q, want sk-test-key-123", creds.Keys["openai"])
	}
	if creds.Keys["anthropic"] != "sk-ant-456" {
		t.Errorf("anthropic key = %q, want sk-ant-456", creds.Keys["anthropic"])
	}
}

func TestDeleteCredential(t *testing.T) {
	path := filepath.Join(t.TempDir(), "credentials.json")

	if err := SaveCredentialTo(path, core.ProviderOpenAI, "sk-test-key-123"); err != nil {
		t.Fatal(err)
	}
	if err := SaveCredentialTo(path, core.ProviderAnthropic, "sk-ant-456"); err != nil {
		t.Fatal(err)
	}

	if err := DeleteCredentialFrom(path, core.ProviderOpenAI); err != nil {
		t.Fatalf("DeleteCredentialFrom error: %v", err)
	}

	creds, err := LoadCredentialsFrom(path)
	if err != nil {
		t.Fatal(err)
	}

	if len(creds.Keys) != 1 {
		t.Fatalf("keys count = %d, want 1", len(creds.Keys))
	}
	if _, ok := creds.Keys["openai"]; ok {
		t.Error("openai key should have been deleted")
	}
}

func TestLoadCredentialsFrom_MissingFile(t *testing.T) {
	creds, err := LoadCredentialsFrom(filepath.Join(t.TempDir(), "missing.json"))
	if err != nil {
		t.Fatalf("missing file should not error: %v", err)
	}
	if creds.Keys == nil || len(creds.Keys) != 0 {
		t.Errorf("keys = %v, want empty map", creds.Keys)
	}
}

func TestCredentialFilePermissions(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("file modes are not meaningful on windows")
	}

	path := filepath.Join(t.TempDir(), "credentials.json")
	if err := SaveCredentialTo(path, core.ProviderOpenAI, "sk-secret"); err != nil {
		t.Fatal(err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if info.Mode().Perm() != 0o600 {
		t.Errorf("credentials mode = %o, want 600", info.Mode().Perm())
	}
}

func TestKeysFromEnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "keys.env")
	content := "OPENAI_ADMIN_KEY=sk-env-openai\nANTHROPIC_ADMIN_KEY=sk-env-ant\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	keys, err := KeysFromEnvFile(path)
	if err != nil {
		t.Fatalf("KeysFromEnvFile error: %v", err)
	}
	if keys[core.ProviderOpenAI] != "sk-env-openai" {
		t.Errorf("openai key = %q", keys[core.ProviderOpenAI])
	}
	if keys[core.ProviderAnthropic] != "sk-env-ant" {
		t.Errorf("anthropic key = %q", keys[core.ProviderAnthropic])
	}
}

func TestKeysFromEnvFile_Missing(t *testing.T) {
	if _, err := KeysFromEnvFile(filepath.Join(t.TempDir(), "absent.env")); err == nil {
		t.Error("missing env file should error")
	}
}
