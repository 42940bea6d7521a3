// Package main is the entry point for the gvmreport CLI.
// gvmreport converts OpenVAS/GVM XML scan reports into vulnerability
// reports: it parses result records, normalizes them into findings, groups
// them by vulnerability or host, and renders tables in several formats.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/gvmreport/gvmreport/cmd/convert"
	"github.com/gvmreport/gvmreport/cmd/formats"
	"github.com/gvmreport/gvmreport/pkg/logger"
)

var (
	version   = "dev"
	buildTime = "unknown"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	// Global flags
	var (
		debug       bool
		logFormat   string
		showVersion bool
	)

	globalFlags := flag.NewFlagSet("gvmreport", flag.ExitOnError)
	globalFlags.BoolVar(&debug, "debug", false, "Enable debug logging")
	globalFlags.StringVar(&logFormat, "log-format", "text", "Log format (text or json)")
	globalFlags.BoolVar(&showVersion, "version", false, "Show version information")

	if err := globalFlags.Parse(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing flags: %v\n", err)
		os.Exit(1)
	}

	if showVersion {
		fmt.Printf("gvmreport version %s (built %s)\n", version, buildTime) //nolint:forbidigo
		os.Exit(0)
	}

	logger.SetupLogger(debug, logFormat)

	args := globalFlags.Args()
	if len(args) == 0 {
		printUsage()
		os.Exit(1)
	}

	command := args[0]
	commandArgs := args[1:]

	switch command {
	case "convert":
		if err := convert.Run(commandArgs); err != nil {
			logger.Error("conversion failed", "error", err)
			os.Exit(1)
		}
	case "formats":
		if err := formats.Run(commandArgs); err != nil {
			logger.Error("listing formats failed", "error", err)
			os.Exit(1)
		}
	case "help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	//nolint:forbidigo
	fmt.Println(`gvmreport — OpenVAS/GVM report converter

Usage:
  gvmreport [global flags] <command> [command flags]

Commands:
  convert   Convert scanner XML reports into a vulnerability report
  formats   List available output formats
  help      Show this help message

Global Flags:
  --debug         Enable debug logging
  --log-format    Log format (text or json) (default: text)
  --version       Show version information

Examples:
  gvmreport convert --output report.xlsx scan.xml
  gvmreport convert --format html --type host scan.xml
  gvmreport convert --config report.yaml
  gvmreport formats

Use "gvmreport <command> --help" for more information about a command.`)
}
