package main

import (
	"fmt"
	"log"
	"os"
)

func main() {
	log.SetFlags(0)
	if err := runCLI(); err != nil {
		log.Fatalf("error: %v", err)
	}
}

func runCLI() error {
	if len(os.Args) < 2 {
		printUsage()
		return nil
	}

	command := os.Args[1]
	args := os.Args[2:]

	switch command {
	case "analyze":
		return runAnalyzeCmd(args)
	case "report":
		return runReportCmd(args)
	case "setup":
		return runSetupCmd(args)
	case "-h", "--help", "help":
		printUsage()
		return nil
	default:
		printUsage()
		return fmt.Errorf("unknown command: %s", command)
	}
}

func printUsage() {
	fmt.Println("Usage:")
	fmt.Println("  go run . analyze --in conversation.txt [--out_json PATH] [--db out/analyses.db] [--config risk.yaml]")
	fmt.Println("  go run . report --db out/analyses.db")
	fmt.Println("  go run . setup --db out/analyses.db")
}
