package auth

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/oauth2"

	"github.com/tutorqa/sheets-sync/log"
)

// TokensFile returns the path of the OAuth2 tokens file for a credentials file i.e.
// <workdir>/<credentials name>.tokens.
func TokensFile(workdir, credentials string) string {
	name := "credentials"
	if credentials != "" && !strings.HasPrefix(credentials, SecretsManager) {
		_, file := filepath.Split(credentials)
		name = strings.TrimSuffix(file, filepath.Ext(file))
	}

	return filepath.Join(workdir, fmt.Sprintf("%s.tokens", name))
}

func tokenFromFile(file string) (*oauth2.Token, error) {
	f, err := os.Open(file)
	if err != nil {
		return nil, err
	}

	defer f.Close()

	token := oauth2.Token{}
	if err := json.NewDecoder(f).Decode(&token); err != nil {
		return nil, err
	}

	return &token, nil
}

// SaveToken writes an OAuth2 token to the tokens file, readable only by the owner.
func SaveToken(file string, token *oauth2.Token) error {
	if err := os.MkdirAll(filepath.Dir(file), 0700); err != nil {
		return err
	}

	f, err := os.OpenFile(file, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("unable to save OAuth token to %v (%w)", file, err)
	}

	defer f.Close()

	if err := json.NewEncoder(f).Encode(token); err != nil {
		return err
	}

	log.Infof("saved OAuth token to %v", file)

	return nil
}
