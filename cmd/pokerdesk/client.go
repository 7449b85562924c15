package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/okian/pokerdesk/internal/adapters/tables"
)

// newClient maps the loaded configuration onto client options.
func newClient(env *environment) *tables.Client {
	status := tables.StatusStrict
	if !env.cfg.StrictStatus {
		status = tables.StatusIgnore
	}
	return tables.New(
		tables.WithBaseURL(env.cfg.APIBaseURL),
		tables.WithTimeout(env.cfg.RequestTimeout()),
		tables.WithAssistEndpoint(env.cfg.AssistURL, env.cfg.AssistToken),
		tables.WithStatusPolicy(status),
		tables.WithSeatCountCheck(env.cfg.CheckSeatCount),
		tables.WithLogger(env.log.Named("tables")),
	)
}

// readInput returns the contents of path, or of stdin when path is "-".
func readInput(env *environment, path string) ([]byte, error) {
	if path == "-" {
		b, err := io.ReadAll(env.in)
		if err != nil {
			return nil, fmt.Errorf("read stdin: %w", err)
		}
		return b, nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return b, nil
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
