// Package catalog reads method catalogs from disk or over HTTP.
//
// Three source formats are understood: the Steam-style api.json
// (interface → method → definition), the same shape in YAML, and
// OpenAPI 3 documents in either encoding.
package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"steamdocs/internal/errors"
	"steamdocs/internal/logging"
	"steamdocs/internal/model"
	"steamdocs/internal/openapi"
)

const defaultTimeout = 10 * time.Second

type Format string

const (
	FormatAuto    Format = ""
	FormatJSON    Format = "json"
	FormatYAML    Format = "yaml"
	FormatOpenAPI Format = "openapi"
)

type Options struct {
	Format  Format
	Timeout time.Duration
	Client  *http.Client
}

// Load reads source, an http(s) URL or a file path, and decodes it into a
// catalog. A source without interfaces is an error.
func Load(ctx context.Context, source string, opts Options) (*model.Catalog, error) {
	logger := logging.FromContext(ctx)
	source = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(source), "@"))
	if source == "" {
		return nil, fmt.Errorf("catalog source: %w", errors.ErrInvalidInput)
	}

	start := time.Now()
	data, err := read(ctx, source, opts)
	if err != nil {
		return nil, err
	}

	format := opts.Format
	if format == FormatAuto {
		format = detect(source, data)
	}

	cat, err := Decode(ctx, data, format)
	if err != nil {
		return nil, fmt.Errorf("decode %s catalog: %w", format, err)
	}
	if cat.Len() == 0 {
		return nil, errors.ErrEmptyCatalog
	}

	logger.Debug().
		Str("source", source).
		Str("format", string(format)).
		Int("interfaces", cat.Len()).
		Int("methods", cat.MethodCount()).
		Dur("elapsed", time.Since(start)).
		Msg("catalog loaded")
	return cat, nil
}

// Decode parses data in the given format. FormatAuto sniffs the content.
func Decode(ctx context.Context, data []byte, format Format) (*model.Catalog, error) {
	if format == FormatAuto {
		format = detect("", data)
	}
	switch format {
	case FormatOpenAPI:
		doc, err := openapi.Parse(ctx, data)
		if err != nil {
			return nil, err
		}
		return openapi.ToCatalog(doc), nil
	case FormatYAML:
		return decodeYAML(data)
	case FormatJSON:
		return decodeJSON(bytes.NewReader(data))
	}
	return nil, fmt.Errorf("format %q: %w", format, errors.ErrInvalidInput)
}

func read(ctx context.Context, source string, opts Options) ([]byte, error) {
	if !isURL(source) {
		return os.ReadFile(source)
	}

	client := opts.Client
	if client == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = defaultTimeout
		}
		client = &http.Client{Timeout: timeout}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, source, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json, application/yaml;q=0.9, */*;q=0.5")

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("GET %s: %s", source, resp.Status)
	}
	return io.ReadAll(resp.Body)
}

func isURL(source string) bool {
	low := strings.ToLower(source)
	return strings.HasPrefix(low, "http://") || strings.HasPrefix(low, "https://")
}

// detect picks a format from the source's extension and the document's
// top-level "openapi" field.
func detect(source string, data []byte) Format {
	ext := strings.ToLower(filepath.Ext(strings.SplitN(source, "?", 2)[0]))
	trimmed := strings.TrimSpace(string(data))
	isJSON := strings.HasPrefix(trimmed, "{")

	if isJSON {
		var probe struct {
			OpenAPI string `json:"openapi"`
		}
		if json.Unmarshal(data, &probe) == nil && probe.OpenAPI != "" {
			return FormatOpenAPI
		}
		return FormatJSON
	}

	var probe struct {
		OpenAPI string `yaml:"openapi"`
	}
	if yaml.Unmarshal(data, &probe) == nil && probe.OpenAPI != "" {
		return FormatOpenAPI
	}
	if ext == ".json" {
		return FormatJSON
	}
	return FormatYAML
}
