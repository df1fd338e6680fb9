package commands

import (
	"os"
	"path/filepath"
)

const (
	DEFAULT_BIND = "127.0.0.1:8501"
	BROWSER      = "explorer"
)

var (
	DEFAULT_WORKDIR = filepath.Join(workdir(), "sheets-sync")
	DEFAULT_CONFIG  = filepath.Join(workdir(), "sheets-sync", "sheets-sync.json")
	DEFAULT_ENV     = filepath.Join(workdir(), "sheets-sync", ".env")
)

func workdir() string {
	programData := os.Getenv("ProgramData")
	if programData == "" {
		return `C:\ProgramData`
	}

	return programData
}
