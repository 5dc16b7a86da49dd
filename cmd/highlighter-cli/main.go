package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"yashubustudio/highlighter/emb"
	"yashubustudio/highlighter/highlighter"
)

type cliOptions struct {
	configPath string
	question   string
	inputPath  string
	outputPath string
	idColumn   string
	textColumn string
	stdout     bool
}

type cliResult struct {
	ID         string                  `json:"id,omitempty"`
	Highlights []highlighter.Highlight `json:"highlights"`
}

func main() {
	opts, err := parseFlags()
	if err != nil {
		log.Fatalf("highlighter-cli: %v", err)
	}
	if err := run(opts); err != nil {
		log.Fatalf("highlighter-cli: %v", err)
	}
}

func parseFlags() (cliOptions, error) {
	var opts cliOptions
	flag.StringVar(&opts.configPath, "config", "", "Path to config.json (default: ./config.json)")
	flag.StringVar(&opts.question, "question", "", "Question to highlight passages against")
	flag.StringVar(&opts.inputPath, "input", "", "Text/CSV/TSV file containing passages")
	flag.StringVar(&opts.outputPath, "output", "", "JSON file to write results (default: stdout)")
	flag.StringVar(&opts.idColumn, "id-column", "", "Column name or #index for passage ids")
	flag.StringVar(&opts.textColumn, "text-column", "", "Column name or #index for passage text")
	flag.BoolVar(&opts.stdout, "stdout", false, "Print a readable summary to STDOUT")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage: %s --question TEXT --input FILE [options]\n\n", filepath.Base(os.Args[0]))
		flag.PrintDefaults()
	}
	flag.Parse()

	opts.question = strings.TrimSpace(opts.question)
	opts.inputPath = strings.TrimSpace(opts.inputPath)
	if opts.question == "" {
		flag.Usage()
		return opts, errors.New("missing required --question")
	}
	if opts.inputPath == "" {
		flag.Usage()
		return opts, errors.New("missing required --input file")
	}
	return opts, nil
}

func run(opts cliOptions) error {
	cfg, err := highlighter.LoadConfig(opts.configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	segmenter, err := highlighter.NewPunktSegmenter()
	if err != nil {
		return fmt.Errorf("init segmenter: %w", err)
	}
	tok, err := highlighter.NewWordPieceTokenizer(cfg.TokenizerPath, cfg.MaxLength, cfg.Stride)
	if err != nil {
		return fmt.Errorf("init tokenizer: %w", err)
	}
	head, err := emb.LoadHead(cfg.Encoder.HeadPath)
	if err != nil {
		return fmt.Errorf("load classifier head: %w", err)
	}
	encoder := emb.NewEncoder(emb.Config{
		OrtDLL:    cfg.Encoder.OrtDLL,
		ModelPath: cfg.Encoder.ModelPath,
		PoolSize:  cfg.Encoder.PoolSize,
	}, zap.NewNop())
	defer encoder.Close()

	svc, err := highlighter.NewService(segmenter, tok, encoder, head, cfg, nil)
	if err != nil {
		return fmt.Errorf("init service: %w", err)
	}
	defer svc.Close()

	records, err := highlighter.ParsePassages(opts.inputPath, highlighter.PassageParseOptions{
		IDColumn:   opts.idColumn,
		TextColumn: opts.textColumn,
	})
	if err != nil {
		return fmt.Errorf("read passages: %w", err)
	}
	if len(records) == 0 {
		return errors.New("input file does not contain any passages")
	}

	ctx := context.Background()
	results := make([]cliResult, len(records))
	for i, rec := range records {
		highlights, err := svc.Highlight(ctx, opts.question, rec.Text)
		if err != nil {
			return fmt.Errorf("highlight passage %d: %w", i, err)
		}
		results[i] = cliResult{ID: rec.ID, Highlights: highlights}
	}

	if err := writeResults(opts.outputPath, results); err != nil {
		return err
	}
	if opts.stdout || opts.outputPath == "" {
		printSummary(records, results)
	}
	return nil
}

func writeResults(path string, results []cliResult) error {
	if path == "" {
		return nil
	}
	data, err := json.MarshalIndent(results, "", "  ")
	if err != nil {
		return fmt.Errorf("encode results: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write results: %w", err)
	}
	fmt.Printf("wrote %d results to %s\n", len(results), path)
	return nil
}

func printSummary(records []highlighter.PassageRecord, results []cliResult) {
	for i, rec := range records {
		fmt.Printf("%d. %s\n", i+1, summarizePassage(rec))
		if len(results[i].Highlights) == 0 {
			fmt.Println("    no highlights")
			continue
		}
		for _, h := range results[i].Highlights {
			fmt.Printf("    [%d:%d] %s\n", h.Start, h.End, h.Text)
		}
	}
}

func summarizePassage(rec highlighter.PassageRecord) string {
	if rec.ID != "" {
		return "#" + rec.ID
	}
	text := strings.TrimSpace(rec.Text)
	runes := []rune(text)
	if len(runes) > 60 {
		return string(runes[:60]) + "…"
	}
	return text
}
