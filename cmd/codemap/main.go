package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/DeusData/codemap/internal/config"
	"github.com/DeusData/codemap/internal/discover"
	"github.com/DeusData/codemap/internal/orchestrator"
	"github.com/DeusData/codemap/internal/parser"
	"github.com/DeusData/codemap/internal/sink"
)

var version = "dev"

func main() {
	if len(os.Args) > 1 && os.Args[1] == "--version" {
		fmt.Println("codemap", version)
		os.Exit(0)
	}

	var root, configPath, outPath string
	var positional []string
	for i := 1; i < len(os.Args); i++ {
		switch os.Args[i] {
		case "--config":
			i++
			if i < len(os.Args) {
				configPath = os.Args[i]
			}
		case "--out":
			i++
			if i < len(os.Args) {
				outPath = os.Args[i]
			}
		case "--help", "-h":
			printUsage()
			os.Exit(0)
		default:
			positional = append(positional, os.Args[i])
		}
	}
	if len(positional) == 0 {
		printUsage()
		os.Exit(1)
	}
	root = positional[0]

	cfg, err := loadConfig(configPath)
	if err != nil {
		log.Fatalf("codemap: config: %v", err)
	}
	cfg.Normalize()

	cm, err := orchestrator.Run(context.Background(), orchestrator.Options{
		Root:       root,
		Config:     cfg,
		Discoverer: discover.NewDefaultDiscoverer(),
		Parser:     parser.NewTreeSitterProvider(),
	})

	var strictErr *orchestrator.ErrStrict
	if err != nil && !isStrictErr(err, &strictErr) {
		log.Fatalf("codemap: %v", err)
	}

	var out sink.Sink
	if outPath == "" {
		out = sink.WriterSink{W: os.Stdout}
	} else {
		out = sink.FileSink{Path: outPath}
	}
	if cm != nil {
		if writeErr := out.Write(cm); writeErr != nil {
			log.Fatalf("codemap: write: %v", writeErr)
		}
	}

	if strictErr != nil {
		fmt.Fprintf(os.Stderr, "codemap: %v\n", strictErr)
		os.Exit(1)
	}
}

func isStrictErr(err error, target **orchestrator.ErrStrict) bool {
	if se, ok := err.(*orchestrator.ErrStrict); ok {
		*target = se
		return true
	}
	return false
}

func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		return config.Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	cfg := config.Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

func printUsage() {
	fmt.Fprintf(os.Stderr, "Usage: codemap [--config path] [--out path] <root>\n\n")
	fmt.Fprintf(os.Stderr, "Flags:\n")
	fmt.Fprintf(os.Stderr, "  --config path   YAML configuration file (see spec §6)\n")
	fmt.Fprintf(os.Stderr, "  --out path      Write the code map to a file instead of stdout\n")
}
