// Package main contains Mage build targets for geo-extract developer tooling.
package main

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/magefile/mage/mg"
)

// projectDirs lists the working directories the extract targets expect.
var projectDirs = []string{
	"data",
	"output",
	"output/reports",
}

// Init creates the working directories used by the Extract and Tail targets.
func Init() error {
	for _, dir := range projectDirs {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating %s: %w", dir, err)
		}
		fmt.Println("  ", dir)
	}
	fmt.Println("Project directories initialized.")
	return nil
}

const (
	binDir  = "bin"
	binName = "geo-extract"
	cmdPkg  = "./cmd/geo-extract"
)

// Build compiles the CLI binary into bin/.
func Build() error {
	if err := os.MkdirAll(binDir, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", binDir, err)
	}
	out := filepath.Join(binDir, binName)
	if err := run("go", "build", "-o", out, cmdPkg); err != nil {
		return fmt.Errorf("go build: %w", err)
	}
	fmt.Printf("Built %s\n", out)
	return nil
}

// Test runs the unit tests of every package.
func Test() error {
	if err := run("go", "test", "./..."); err != nil {
		return fmt.Errorf("go test: %w", err)
	}
	return nil
}

// Vet runs go vet over every package.
func Vet() error {
	return run("go", "vet", "./...")
}

// Check vets, tests, and builds.
func Check() {
	mg.SerialDeps(Vet, Test, Build)
}

// Stats prints the size of each input dump under data/.
func Stats() error {
	entries, err := os.ReadDir("data")
	if err != nil {
		return fmt.Errorf("reading data: %w", err)
	}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		info, err := e.Info()
		if err != nil {
			return err
		}
		fmt.Printf("%-40s %12d bytes\n", e.Name(), info.Size())
	}
	return nil
}

func run(name string, args ...string) error {
	cmd := exec.Command(name, args...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}
