package worker

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ppiankov/rivenscan/internal/model"
)

// Processor turns one input (an image or text file path) into a report
type Processor interface {
	ProcessFile(ctx context.Context, path string) (*model.Report, error)
}

// ParseJob processes one input
type ParseJob struct {
	Input     string
	Processor Processor
}

// Execute implements Job
func (j *ParseJob) Execute(ctx context.Context) Result {
	report, err := j.Processor.ProcessFile(ctx, j.Input)
	return &ParseResult{Input: j.Input, Report: report, Error: err}
}

// ParseResult is the outcome of one ParseJob
type ParseResult struct {
	Input  string
	Report *model.Report
	Error  error
}

// Err implements Result
func (r *ParseResult) Err() error {
	return r.Error
}

// BatchProcessor processes many inputs on a worker pool
type BatchProcessor struct {
	processor   Processor
	concurrency int
}

// NewBatchProcessor creates a batch processor
func NewBatchProcessor(p Processor, concurrency int) *BatchProcessor {
	return &BatchProcessor{processor: p, concurrency: concurrency}
}

// ProcessInputs runs every input and returns results in input order
func (b *BatchProcessor) ProcessInputs(ctx context.Context, inputs []string) []*ParseResult {
	if len(inputs) == 0 {
		return []*ParseResult{}
	}

	pool := NewPool(ctx, b.concurrency)
	pool.Start()
	for _, in := range inputs {
		if !pool.Submit(&ParseJob{Input: in, Processor: b.processor}) {
			break
		}
	}

	results := pool.Wait()
	out := make([]*ParseResult, len(inputs))
	for i := range inputs {
		if i < len(results) && results[i] != nil {
			out[i] = results[i].(*ParseResult)
			continue
		}
		err := ctx.Err()
		if err == nil {
			err = context.Canceled
		}
		out[i] = &ParseResult{Input: inputs[i], Error: err}
	}
	return out
}

// ProcessFile reads an input list and processes it
func (b *BatchProcessor) ProcessFile(ctx context.Context, listPath string) ([]*ParseResult, error) {
	inputs, err := ReadInputList(listPath)
	if err != nil {
		return nil, fmt.Errorf("read input list: %w", err)
	}
	return b.ProcessInputs(ctx, inputs), nil
}

// ReadInputList reads one path or URL per line, skipping blanks, comments
// and duplicates. Relative paths resolve against the list's directory.
func ReadInputList(listPath string) ([]string, error) {
	f, err := os.Open(listPath)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer func() { _ = f.Close() }()

	base := filepath.Dir(listPath)
	seen := make(map[string]bool)
	var inputs []string

	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if !isURL(line) && !filepath.IsAbs(line) {
			line = filepath.Join(base, line)
		}
		if seen[line] {
			continue
		}
		seen[line] = true
		inputs = append(inputs, line)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("scan file: %w", err)
	}
	return inputs, nil
}

func isURL(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}
