package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
)

const (
	defaultAPIURL = "http://localhost:8080"
	tokenFileName = ".hci_inventory_token"
	apiURLEnv     = "HCI_INVENTORY_API_URL"
	tokenFileEnv  = "HCI_INVENTORY_TOKEN_FILE"
)

var ErrNotLoggedIn = errors.New("not logged in: run `hci-inv login` first")

// APIURL returns the base URL of the inventory API.
// It can be overridden with the HCI_INVENTORY_API_URL environment variable.
func APIURL() string {
	if v := os.Getenv(apiURLEnv); v != "" {
		return strings.TrimRight(v, "/")
	}
	return defaultAPIURL
}

// TokenPath is where the session token is kept, ~/.hci_inventory_token unless
// HCI_INVENTORY_TOKEN_FILE is set.
func TokenPath() string {
	if v := os.Getenv(tokenFileEnv); v != "" {
		return v
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return tokenFileName
	}
	return filepath.Join(home, tokenFileName)
}

func SaveToken(token string) error {
	return os.WriteFile(TokenPath(), []byte(token), 0o600)
}

func LoadToken() (string, error) {
	b, err := os.ReadFile(TokenPath())
	if errors.Is(err, os.ErrNotExist) {
		return "", ErrNotLoggedIn
	}
	if err != nil {
		return "", err
	}
	token := strings.TrimSpace(string(b))
	if token == "" {
		return "", ErrNotLoggedIn
	}
	return token, nil
}

func ClearToken() error {
	err := os.Remove(TokenPath())
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}
