// cmd/tools/registry-updater/main.go
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"fantasy-research/pkg/registry"
)

const defaultRegistryPath = "configs/activity-registry.json"

func main() {
	if len(os.Args) < 2 {
		help(os.Stderr)
		os.Exit(1)
	}
	if err := run(os.Args[1], os.Args[2:], os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "%s failed: %v\n", os.Args[1], err)
		os.Exit(1)
	}
}

func run(command string, args []string, out io.Writer) error {
	flags := flag.NewFlagSet(command, flag.ContinueOnError)
	path := flags.String("path", defaultRegistryPath, "Path to registry file")

	switch command {
	case "export":
		if err := flags.Parse(args); err != nil {
			return err
		}
		reg := registry.Catalog()
		reg.LastUpdated = time.Now().UTC().Format(time.RFC3339)
		if err := registry.SaveRegistry(reg, *path); err != nil {
			return err
		}
		fmt.Fprintf(out, "Wrote %d activities to %s\n", len(reg.Activities), *path)
		return nil

	case "validate":
		if err := flags.Parse(args); err != nil {
			return err
		}
		stored, err := registry.LoadRegistry(*path)
		if err != nil {
			return fmt.Errorf("failed to load registry: %w", err)
		}
		if err := registry.Validate(stored); err != nil {
			return err
		}
		if drift := registry.Drift(stored, registry.Catalog()); len(drift) > 0 {
			for _, d := range drift {
				fmt.Fprintln(out, d)
			}
			return fmt.Errorf("registry is out of date; run export")
		}
		fmt.Fprintln(out, "Registry validation passed.")
		return nil

	default:
		help(out)
		return nil
	}
}

func help(out io.Writer) {
	fmt.Fprintln(out, "Usage: registry-updater <command> [-path file]")
	fmt.Fprintln(out, "  export    write the activity registry from the compiled workers")
	fmt.Fprintln(out, "  validate  check the registry file and report drift from the workers")
}
