package secrets

import (
	"errors"
	"os"
	"strings"

	"github.com/zalando/go-keyring"
)

const (
	// Service groups the app's secrets in the OS keychain.
	KeyringService = "leadsnap"

	EnvOpenAIKey = "OPENAI_API_KEY"
)

var ErrKeyNotFound = errors.New("OpenAI API key not found (set OPENAI_API_KEY or store it in the keychain)")

// Source says where a key was found.
type Source string

const (
	SourceNone    Source = ""
	SourceEnv     Source = "env"
	SourceKeyring Source = "keyring"
)

// OpenAIKey returns the API key from OPENAI_API_KEY, then the keychain.
func OpenAIKey(keyringAccount string) (string, Source, error) {
	if v := strings.TrimSpace(os.Getenv(EnvOpenAIKey)); v != "" {
		return v, SourceEnv, nil
	}
	if strings.TrimSpace(keyringAccount) != "" {
		k, err := keyring.Get(KeyringService, keyringAccount)
		if err == nil && strings.TrimSpace(k) != "" {
			return strings.TrimSpace(k), SourceKeyring, nil
		}
	}
	return "", SourceNone, ErrKeyNotFound
}

func SetOpenAIKey(keyringAccount string, key string) error {
	if strings.TrimSpace(keyringAccount) == "" {
		return errors.New("keyring account name is empty")
	}
	if strings.TrimSpace(key) == "" {
		return errors.New("api key is empty")
	}
	return keyring.Set(KeyringService, keyringAccount, strings.TrimSpace(key))
}

func DeleteOpenAIKey(keyringAccount string) error {
	if strings.TrimSpace(keyringAccount) == "" {
		return errors.New("keyring account name is empty")
	}
	err := keyring.Delete(KeyringService, keyringAccount)
	if errors.Is(err, keyring.ErrNotFound) {
		return nil
	}
	return err
}
