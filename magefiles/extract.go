package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/magefile/mage/mg"
)

// inputEnv names the environment variable holding the dump to process.
const inputEnv = "GEO_EXTRACT_INPUT"

func inputPath() string {
	if p := os.Getenv(inputEnv); p != "" {
		return p
	}
	return filepath.Join("data", "tweets.json")
}

// Extract runs the default UK extraction over the input dump into output/.
// Set GEO_EXTRACT_INPUT to choose the dump (default data/tweets.json).
func Extract() error {
	mg.Deps(Init, Build)
	return run(filepath.Join(binDir, binName), "extract",
		inputPath(), filepath.Join("output", "uk.csv"),
		"--report", filepath.Join("output", "reports", "uk.yaml"))
}

// Tail prints the last records of the input dump.
func Tail() error {
	mg.Deps(Build)
	if err := run(filepath.Join(binDir, binName), "tail", inputPath(), "-n", "5"); err != nil {
		return fmt.Errorf("tail: %w", err)
	}
	return nil
}
