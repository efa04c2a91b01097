package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"docqa/pkg/chat"
	"docqa/pkg/ingest"
	"docqa/pkg/logging"
	"docqa/pkg/qa"

	"golang.org/x/term"
)

var errNoDocumentSource = errors.New("no document: pass -doc FILE or pipe text on stdin")

// runAsk answers one question headlessly and prints the result as JSON.
func runAsk(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	opts, rest, err := parseFlags(appName+" ask", args, stderr)
	if err != nil {
		return flagExitCode(err)
	}
	question := strings.TrimSpace(strings.Join(rest, " "))
	if question == "" {
		fmt.Fprintf(stderr, "Usage: %s ask [-doc FILE] [-config PATH] \"question\"\n", appName)
		return 1
	}

	cfg, err := loadConfig(opts.configPath, os.Getenv)
	if err != nil {
		fmt.Fprintf(stderr, "Error loading config: %v\n", err)
		return 1
	}
	if _, err := logging.Init(cfg); err != nil {
		fmt.Fprintf(stderr, "Warning: logging disabled: %v\n", err)
	}

	gateway, err := newGateway(cfg)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	extractor := ingest.NewExtractor(cfg.MaxFileBytes())
	text, err := readDocument(ctx, extractor, opts.docPath, stdin, stdinIsTerminal(stdin))
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	result, err := ask(ctx, gateway, text, question)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	if err := writeResult(stdout, result); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

// readDocument loads the document from path, or from stdin when no path is
// given and stdin is not a terminal.
func readDocument(ctx context.Context, extractor *ingest.Extractor, path string, stdin io.Reader, isTerminal bool) (string, error) {
	if path != "" {
		doc, err := extractor.ReadFile(ctx, path)
		if errors.Is(err, ingest.ErrUnsupportedType) {
			return "", errors.New(ingest.UnsupportedTypeMessage)
		}
		if err != nil {
			return "", err
		}
		slog.Info("ask_document_loaded", "name", doc.Name, "pages", doc.Pages, "chars", len(doc.Text))
		return doc.Text, nil
	}

	if stdin == nil || isTerminal {
		return "", errNoDocumentSource
	}

	reader := stdin
	if extractor.MaxBytes > 0 {
		reader = io.LimitReader(stdin, extractor.MaxBytes+1)
	}
	data, err := io.ReadAll(reader)
	if err != nil {
		return "", fmt.Errorf("failed to read stdin: %w", err)
	}
	if extractor.MaxBytes > 0 && int64(len(data)) > extractor.MaxBytes {
		return "", fmt.Errorf("%w: stdin is over %d bytes", ingest.ErrFileTooLarge, extractor.MaxBytes)
	}
	return string(data), nil
}

// ask runs a single question through a fresh session.
func ask(ctx context.Context, answerer chat.Answerer, text, question string) (qa.Result, error) {
	session := chat.NewSession()
	if err := session.SetDocument(text); err != nil {
		return qa.Result{}, err
	}
	msg, err := session.Ask(ctx, answerer, question)
	if err != nil {
		return qa.Result{}, err
	}
	return qa.Result{Answer: msg.Content, Sources: msg.Sources}, nil
}

func writeResult(w io.Writer, result qa.Result) error {
	if result.Sources == nil {
		result.Sources = []string{}
	}
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode result: %w", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

func stdinIsTerminal(stdin io.Reader) bool {
	f, ok := stdin.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}
