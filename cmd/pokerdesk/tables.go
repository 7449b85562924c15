package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/okian/pokerdesk/internal/domain/table"
	"github.com/okian/pokerdesk/internal/router"
)

var errInvalidID = errors.New("table id must be an integer")

// TablesCmd groups the backend table operations.
type TablesCmd struct {
	List   TablesListCmd   `cmd:"" help:"List table summaries"`
	Get    TablesGetCmd    `cmd:"" help:"Fetch one table by id"`
	Create TablesCreateCmd `cmd:"" help:"Create a table from a JSON document"`
}

type TablesListCmd struct{}

func (c *TablesListCmd) Run(env *environment) error {
	summaries, err := newClient(env).ListSummaries(env.ctx)
	if err != nil {
		return err
	}
	return printJSON(env.out, summaries)
}

type TablesGetCmd struct {
	ID string `arg:"" help:"Table id"`
}

// Run coerces the id the same way the table route does.
func (c *TablesGetCmd) Run(env *environment) error {
	id, ok := router.Props{ID: router.Number(c.ID)}.TableID()
	if !ok {
		return fmt.Errorf("%w: %q", errInvalidID, c.ID)
	}
	t, err := newClient(env).Get(env.ctx, id)
	if err != nil {
		return err
	}
	return printJSON(env.out, t)
}

type TablesCreateCmd struct {
	File string `arg:"" help:"Path to the table JSON, or - for stdin"`
}

func (c *TablesCreateCmd) Run(env *environment) error {
	raw, err := readInput(env, c.File)
	if err != nil {
		return err
	}
	in, err := parseCreateInput(raw)
	if err != nil {
		return err
	}
	t, err := newClient(env).Create(env.ctx, in)
	if err != nil {
		return err
	}
	return printJSON(env.out, t)
}

// parseCreateInput rejects unknown keys, which includes any "id" the caller
// tries to supply.
func parseCreateInput(raw []byte) (table.CreateInput, error) {
	var in table.CreateInput
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&in); err != nil {
		return table.CreateInput{}, fmt.Errorf("parse table: %w", err)
	}
	return in, nil
}
