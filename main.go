package main

import (
	"log"
	"os"
	"strings"

	"repototext/cmd"
	"repototext/pkg/logging"
	"repototext/pkg/version"

	"go.uber.org/zap"
	"golang.org/x/term"
)

func main() {
	if err := logging.Setup(false, "repototext", version.Version); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}

	// The root command rebuilds the logger once --verbose is known.
	if err := cmd.Execute(); err != nil {
		logging.Logger.Fatal("repototext execution failed", zap.Error(err))
	}

	// Syncing a pipe or a character device other than a terminal fails with EINVAL.
	if term.IsTerminal(int(os.Stderr.Fd())) || isRegularFile(os.Stderr) {
		if syncErr := logging.Logger.Sync(); syncErr != nil {
			lowerErr := strings.ToLower(syncErr.Error())
			if !strings.Contains(lowerErr, "invalid argument") {
				log.Printf("Logger sync failed: %v", syncErr)
			}
		}
	}
}

// isRegularFile checks if the given file is a regular file.
func isRegularFile(f *os.File) bool {
	fileInfo, err := f.Stat()
	if err != nil {
		return false
	}
	return fileInfo.Mode().IsRegular()
}
