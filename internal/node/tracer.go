package node

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/dop251/goja"
)

// TraceMode selects how debug_traceTransaction is asked for memory steps.
type TraceMode string

const (
	// ModeJS sends a JavaScript tracer that filters steps on the node.
	ModeJS TraceMode = "js"
	// ModeStructLog requests the raw struct log with memory and filters it on receipt.
	ModeStructLog TraceMode = "structlog"
)

// DefaultTracer is the embedded JavaScript tracer used in ModeJS.
//
//go:embed memory_tracer.js
var DefaultTracer string

// ParseTraceMode validates a configured mode name.
func ParseTraceMode(s string) (TraceMode, error) {
	switch mode := TraceMode(strings.ToLower(strings.TrimSpace(s))); mode {
	case ModeJS, ModeStructLog:
		return mode, nil
	case "":
		return ModeJS, nil
	default:
		return "", fmt.Errorf("unknown trace mode %q", s)
	}
}

// LoadTracer returns the tracer script stored at path, or DefaultTracer when path is empty.
func LoadTracer(path string) (string, error) {
	if path == "" {
		return DefaultTracer, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read tracer %s: %w", path, err)
	}
	return string(raw), nil
}

// CompileTracer checks that script is a syntactically valid tracer object literal.
// The script is executed by the node, so only its syntax can be verified here.
func CompileTracer(script string) error {
	if strings.TrimSpace(script) == "" {
		return errors.New("tracer script is empty")
	}
	if _, err := goja.Compile("memory_tracer.js", "("+script+")", false); err != nil {
		return fmt.Errorf("compile tracer: %w", err)
	}
	return nil
}

func traceOptions(mode TraceMode, tracer string, timeout time.Duration) map[string]any {
	opts := map[string]any{}
	switch mode {
	case ModeStructLog:
		opts["enableMemory"] = true
		opts["disableStorage"] = true
		opts["enableReturnData"] = false
	default:
		opts["tracer"] = tracer
	}
	if timeout > 0 {
		opts["timeout"] = timeout.String()
	}
	return opts
}
