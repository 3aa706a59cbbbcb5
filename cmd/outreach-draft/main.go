package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mikey/llm-outreach/internal/core"
	"github.com/mikey/llm-outreach/internal/di"
	"go.uber.org/zap"
)

func main() {
	flags, err := di.ParseFlags(os.Args[1:], os.Stderr)
	if errors.Is(err, flag.ErrHelp) {
		return
	}
	if err != nil {
		os.Exit(2)
	}

	// Build the dependency injection container
	container, err := di.BuildCLIContainer(flags)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to build dependency container: %v\n", err)
		os.Exit(1)
	}

	if err := container.Invoke(run); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(
	flags *di.CLIFlags,
	logger *zap.Logger,
	service *core.GenerationService,
	llmClient core.ModelClient,
) error {
	defer logger.Sync()

	// Close any resources that need closing
	defer func() {
		if closer, ok := llmClient.(interface{ Close() error }); ok {
			if err := closer.Close(); err != nil {
				logger.Error("Failed to close LLM client", zap.Error(err))
			}
		}
	}()

	// Read lead from file or stdin
	var reader io.Reader
	if flags.InputFile != "" {
		file, err := os.Open(flags.InputFile)
		if err != nil {
			return fmt.Errorf("failed to open input file: %w", err)
		}
		defer file.Close()
		reader = file
		logger.Info("Reading lead from file", zap.String("file", flags.InputFile))
	} else {
		reader = os.Stdin
		logger.Info("Reading lead from stdin")
	}

	req, err := decodeRequest(reader)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	start := time.Now()
	result, err := service.Generate(ctx, req)
	if err != nil {
		return err
	}
	logger.Info("Drafting finished", zap.Duration("duration", time.Since(start)))

	return writeResult(os.Stdout, result)
}

// decodeRequest accepts either a full generation request ({"lead": {...}, ...})
// or a bare lead object.
func decodeRequest(r io.Reader) (*core.GenerationRequest, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read input: %w", err)
	}

	var probe map[string]json.RawMessage
	if err := json.Unmarshal(data, &probe); err != nil {
		return nil, fmt.Errorf("failed to parse input as JSON: %w", err)
	}

	req := &core.GenerationRequest{}
	if _, ok := probe["lead"]; ok {
		if err := strictDecode(data, req); err != nil {
			return nil, fmt.Errorf("failed to parse generation request: %w", err)
		}
		return req, nil
	}

	if err := strictDecode(data, &req.Lead); err != nil {
		return nil, fmt.Errorf("failed to parse lead: %w", err)
	}
	return req, nil
}

func strictDecode(data []byte, v interface{}) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

func writeResult(w io.Writer, result *core.GenerationResult) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}
