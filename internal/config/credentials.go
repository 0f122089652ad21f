package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/joho/godotenv"

	"github.com/costwatch/costwatch/internal/core"
)

// Admin-key environment variables, one per provider. Billing endpoints
// need organization/admin scoped keys, not regular inference keys.
const (
	EnvOpenAIKey    = "OPENAI_ADMIN_KEY"
	EnvAnthropicKey = "ANTHROPIC_ADMIN_KEY"
)

func envVarFor(p core.Provider) string {
	if p == core.ProviderAnthropic {
		return EnvAnthropicKey
	}
	return EnvOpenAIKey
}

// Credentials maps providers to their admin API keys.
type Credentials struct {
	Keys map[string]string `json:"keys"` // provider id → API key
}

// credMu guards read-modify-write cycles on the credentials file.
var credMu sync.Mutex

func CredentialsPath() string {
	return filepath.Join(ConfigDir(), "credentials.json")
}

// ResolveKeys gathers credentials for every provider. Precedence:
// process environment, then the env file (when given), then the saved
// key store. Missing keys come back as empty strings.
func ResolveKeys(envFile string) (map[core.Provider]string, error) {
	fileVars := map[string]string{}
	if envFile != "" {
		parsed, err := godotenv.Read(envFile)
		if err != nil {
			return nil, fmt.Errorf("reading env file %s: %w", envFile, err)
		}
		fileVars = parsed
	}

	stored, err := LoadCredentials()
	if err != nil {
		return nil, err
	}

	keys := make(map[core.Provider]string)
	for _, p := range core.AllProviders() {
		envVar := envVarFor(p)
		switch {
		case os.Getenv(envVar) != "":
			keys[p] = os.Getenv(envVar)
		case fileVars[envVar] != "":
			keys[p] = fileVars[envVar]
		default:
			keys[p] = stored.Keys[string(p)]
		}
	}
	return keys, nil
}

// KeysFromEnvFile reads only the env file, used by the watcher on
// change events.
func KeysFromEnvFile(envFile string) (map[core.Provider]string, error) {
	vars, err := godotenv.Read(envFile)
	if err != nil {
		return nil, fmt.Errorf("reading env file %s: %w", envFile, err)
	}
	keys := make(map[core.Provider]string)
	for _, p := range core.AllProviders() {
		keys[p] = vars[envVarFor(p)]
	}
	return keys, nil
}

func LoadCredentials() (Credentials, error) {
	return LoadCredentialsFrom(CredentialsPath())
}

func LoadCredentialsFrom(path string) (Credentials, error) {
	creds := Credentials{Keys: make(map[string]string)}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return creds, nil
		}
		return creds, fmt.Errorf("reading credentials: %w", err)
	}

	if err := json.Unmarshal(data, &creds); err != nil {
		return Credentials{Keys: make(map[string]string)}, fmt.Errorf("parsing credentials %s: %w", path, err)
	}

	if creds.Keys == nil {
		creds.Keys = make(map[string]string)
	}

	return creds, nil
}

// SaveCredential persists a key supplied through the popup so the next
// run does not ask again.
func SaveCredential(p core.Provider, apiKey string) error {
	return SaveCredentialTo(CredentialsPath(), p, apiKey)
}

func SaveCredentialTo(path string, p core.Provider, apiKey string) error {
	credMu.Lock()
	defer credMu.Unlock()

	creds, err := LoadCredentialsFrom(path)
	if err != nil {
		creds = Credentials{Keys: make(map[string]string)}
	}

	creds.Keys[string(p)] = apiKey

	return writeCredentials(path, creds)
}

func DeleteCredential(p core.Provider) error {
	return DeleteCredentialFrom(CredentialsPath(), p)
}

func DeleteCredentialFrom(path string, p core.Provider) error {
	credMu.Lock()
	defer credMu.Unlock()

	creds, err := LoadCredentialsFrom(path)
	if err != nil {
		return err
	}

	delete(creds.Keys, string(p))

	return writeCredentials(path, creds)
}

func writeCredentials(path string, creds Credentials) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating credentials dir: %w", err)
	}

	data, err := json.MarshalIndent(creds, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling credentials: %w", err)
	}
	data = append(data, '\n')

	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("writing credentials: %w", err)
	}
	return nil
}
