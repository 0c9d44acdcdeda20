// Package config reads and writes pow.conf, the JSON configuration kept in
// the powdir.
//
// Files are validated against an embedded CUE schema on read. Keys the
// schema does not know are preserved, so a rewrite only changes what the
// caller set.
package config

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
)

//go:embed schema.cue
var schemaSource string

// Keys understood by pow.
const (
	KeySource     = "rdf.source"
	KeyStore      = "rdf.store"
	KeyStoreConf  = "rdf.store_conf"
	KeyBatchCount = "rdf.upload_block_statement_count"
)

// DefaultSource is the only supported store backend.
const DefaultSource = "sqlite"

// Config is the parsed contents of a configuration file.
type Config struct {
	values map[string]any
}

// Default returns the configuration written by init, pointing at the
// given store path (relative to the base directory).
func Default(storeConf string) *Config {
	return &Config{values: map[string]any{
		KeySource:    DefaultSource,
		KeyStoreConf: filepath.ToSlash(storeConf),
	}}
}

// Read loads and validates the configuration file at path.
func Read(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, &ConfigError{Code: CodeMissing, Path: path, Message: "file does not exist", Err: err}
	}
	if err != nil {
		return nil, &ConfigError{Code: CodeUnreadable, Path: path, Message: err.Error(), Err: err}
	}
	return Parse(data, path)
}

// Parse decodes and validates configuration JSON. name is used in errors.
func Parse(data []byte, name string) (*Config, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var values map[string]any
	if err := dec.Decode(&values); err != nil {
		return nil, &ConfigError{Code: CodeMalformed, Path: name, Message: err.Error(), Err: err}
	}
	if values == nil {
		return nil, &ConfigError{Code: CodeMalformed, Path: name, Message: "expected a JSON object"}
	}
	if err := Validate(data, name); err != nil {
		return nil, err
	}
	return &Config{values: values}, nil
}

// Validate checks configuration JSON against the schema.
func Validate(data []byte, name string) error {
	ctx := cuecontext.New()
	schema := ctx.CompileString(schemaSource, cue.Filename("schema.cue"))
	if err := schema.Err(); err != nil {
		return fmt.Errorf("compiling config schema: %w", err)
	}

	v := ctx.CompileBytes(data, cue.Filename(name))
	if err := v.Err(); err != nil {
		return &ConfigError{Code: CodeMalformed, Path: name, Message: cueerrors.Details(err, nil), Err: err}
	}

	unified := schema.LookupPath(cue.ParsePath("#Config")).Unify(v)
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		return &ConfigError{Code: CodeInvalid, Path: name, Message: cueerrors.Details(err, nil), Err: err}
	}
	return nil
}

// Get returns the raw value stored under key.
func (c *Config) Get(key string) (any, bool) {
	v, ok := c.values[key]
	return v, ok
}

// Set stores a raw value under key.
func (c *Config) Set(key string, v any) {
	c.values[key] = v
}

// Source returns the store backend name.
func (c *Config) Source() string {
	s, _ := c.values[KeySource].(string)
	return s
}

// StoreConf returns the configured store path as written in the file.
func (c *Config) StoreConf() string {
	s, _ := c.values[KeyStoreConf].(string)
	return s
}

// SetStoreConf points the configuration at a store path relative to the
// base directory.
func (c *Config) SetStoreConf(rel string) {
	c.values[KeyStoreConf] = filepath.ToSlash(rel)
}

// StorePath resolves the store path against baseDir.
func (c *Config) StorePath(baseDir string) string {
	p := filepath.FromSlash(c.StoreConf())
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(baseDir, p)
}

// BatchSize returns the configured load batch size, or 0 when unset.
func (c *Config) BatchSize() int {
	switch n := c.values[KeyBatchCount].(type) {
	case json.Number:
		i, err := n.Int64()
		if err != nil {
			return 0
		}
		return int(i)
	case int:
		return n
	default:
		return 0
	}
}

// Encode writes the configuration as JSON with sorted keys, four-space
// indentation and a trailing newline.
func (c *Config) Encode(w io.Writer) error {
	data, err := json.MarshalIndent(c.values, "", "    ")
	if err != nil {
		return err
	}
	data = append(data, '\n')
	_, err = w.Write(data)
	return err
}

// Write replaces the file at path with the encoded configuration.
func (c *Config) Write(path string) error {
	var buf bytes.Buffer
	if err := c.Encode(&buf); err != nil {
		return err
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("writing config %s: %w", path, err)
	}
	return nil
}
