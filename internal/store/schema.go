package store

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed tasks.schema.json
var tasksSchemaJSON []byte

const tasksSchemaURL = "tasklist://tasks.schema.json"

// payloadValidator checks the raw "tasks" document before it is decoded.
type payloadValidator struct {
	schema *jsonschema.Schema
}

func newPayloadValidator() (*payloadValidator, error) {
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(tasksSchemaURL, bytes.NewReader(tasksSchemaJSON)); err != nil {
		return nil, fmt.Errorf("add tasks schema: %w", err)
	}
	schema, err := compiler.Compile(tasksSchemaURL)
	if err != nil {
		return nil, fmt.Errorf("compile tasks schema: %w", err)
	}
	return &payloadValidator{schema: schema}, nil
}

func (v *payloadValidator) Validate(raw []byte) error {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var doc any
	if err := dec.Decode(&doc); err != nil {
		return fmt.Errorf("decode tasks payload: %w", err)
	}
	if err := v.schema.Validate(doc); err != nil {
		return flattenSchemaError(err)
	}
	return nil
}

func flattenSchemaError(err error) error {
	var ve *jsonschema.ValidationError
	if !errors.As(err, &ve) {
		return err
	}
	var msgs []string
	collectSchemaCauses(ve, &msgs)
	if len(msgs) == 0 {
		return err
	}
	return fmt.Errorf("tasks payload: %s", strings.Join(msgs, "; "))
}

func collectSchemaCauses(ve *jsonschema.ValidationError, out *[]string) {
	if len(ve.Causes) == 0 {
		loc := ve.InstanceLocation
		if loc == "" {
			loc = "/"
		}
		*out = append(*out, fmt.Sprintf("%s: %s", loc, ve.Message))
		return
	}
	for _, cause := range ve.Causes {
		collectSchemaCauses(cause, out)
	}
}
