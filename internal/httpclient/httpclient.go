// Package httpclient executes rendered Web API calls.
package httpclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"steamdocs/internal/request"
)

type Result struct {
	StatusCode int
	Status     string
	Elapsed    time.Duration
	Headers    map[string]string
	Body       string
}

type RequestSpec struct {
	Method  string
	URL     string
	Headers map[string]string
	Body    []byte
}

const defaultTimeout = 10 * time.Second

// Options tune Execute. The zero value uses a 10s timeout and plain output.
type Options struct {
	Timeout time.Duration
	Client  *http.Client
	// Color renders JSON bodies with ANSI colors.
	Color bool
}

// BuildRequest turns a call into a request. GET sends the query string as
// is; POST moves it into a form-encoded body.
func BuildRequest(call request.Call) (RequestSpec, error) {
	method := strings.ToUpper(strings.TrimSpace(call.Method))
	if method == "" {
		method = http.MethodGet
	}

	u, err := url.Parse(call.URL)
	if err != nil {
		return RequestSpec{}, err
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return RequestSpec{}, fmt.Errorf("unsupported url scheme %q", u.Scheme)
	}

	headers := map[string]string{"Accept": "application/json, */*;q=0.5"}
	if method != http.MethodPost {
		return RequestSpec{Method: method, URL: u.String(), Headers: headers}, nil
	}

	body := []byte(u.RawQuery)
	u.RawQuery = ""
	headers["Content-Type"] = "application/x-www-form-urlencoded"
	return RequestSpec{Method: method, URL: u.String(), Headers: headers, Body: body}, nil
}

func Execute(ctx context.Context, reqSpec RequestSpec, opts Options) (Result, error) {
	client := opts.Client
	if client == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = defaultTimeout
		}
		client = &http.Client{Timeout: timeout}
	}

	var body io.Reader
	if len(reqSpec.Body) > 0 {
		body = bytes.NewReader(reqSpec.Body)
	}

	req, err := http.NewRequestWithContext(ctx, reqSpec.Method, reqSpec.URL, body)
	if err != nil {
		return Result{}, err
	}
	for k, v := range reqSpec.Headers {
		if strings.TrimSpace(v) != "" {
			req.Header.Set(k, v)
		}
	}

	start := time.Now()
	resp, err := client.Do(req)
	elapsed := time.Since(start)
	if err != nil {
		return Result{}, err
	}
	defer resp.Body.Close()

	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return Result{}, fmt.Errorf("read response: %w", err)
	}

	headers := map[string]string{}
	if ct := resp.Header.Get("Content-Type"); ct != "" {
		headers["content-type"] = ct
	}

	return Result{
		StatusCode: resp.StatusCode,
		Status:     resp.Status,
		Elapsed:    elapsed,
		Headers:    headers,
		Body:       FormatBody(resp.Header.Get("Content-Type"), b, opts.Color),
	}, nil
}

// FormatBody pretty-prints JSON bodies with sorted keys and passes anything
// else through.
func FormatBody(contentType string, body []byte, color bool) string {
	ct := strings.ToLower(contentType)
	looksJSON := strings.Contains(ct, "json") || (ct == "" && json.Valid(body))
	if !looksJSON {
		return string(body)
	}

	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return string(body)
	}
	p := printer{color: color}
	p.value(v, 0)
	return p.String()
}

// ansi color codes
const (
	colorReset   = "\033[0m"
	colorKey     = "\033[36m"
	colorString  = "\033[32m"
	colorNumber  = "\033[33m"
	colorBool    = "\033[35m"
	colorNull    = "\033[90m"
	colorBracket = "\033[37m"
)

type printer struct {
	strings.Builder
	color bool
}

func (p *printer) paint(color, s string) {
	if p.color {
		p.WriteString(color + s + colorReset)
		return
	}
	p.WriteString(s)
}

func (p *printer) value(v any, indent int) {
	prefix := strings.Repeat("  ", indent)

	switch val := v.(type) {
	case nil:
		p.paint(colorNull, "null")
	case bool:
		p.paint(colorBool, fmt.Sprintf("%v", val))
	case json.Number:
		p.paint(colorNumber, val.String())
	case string:
		p.paint(colorString, quote(val))
	case []any:
		if len(val) == 0 {
			p.paint(colorBracket, "[]")
			return
		}
		p.paint(colorBracket, "[")
		p.WriteString("\n")
		for i, item := range val {
			p.WriteString(prefix + "  ")
			p.value(item, indent+1)
			if i < len(val)-1 {
				p.WriteString(",")
			}
			p.WriteString("\n")
		}
		p.WriteString(prefix)
		p.paint(colorBracket, "]")
	case map[string]any:
		if len(val) == 0 {
			p.paint(colorBracket, "{}")
			return
		}
		keys := make([]string, 0, len(val))
		for k := range val {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		p.paint(colorBracket, "{")
		p.WriteString("\n")
		for i, k := range keys {
			p.WriteString(prefix + "  ")
			p.paint(colorKey, quote(k))
			p.WriteString(": ")
			p.value(val[k], indent+1)
			if i < len(keys)-1 {
				p.WriteString(",")
			}
			p.WriteString("\n")
		}
		p.WriteString(prefix)
		p.paint(colorBracket, "}")
	default:
		p.WriteString(fmt.Sprintf("%v", v))
	}
}

func quote(s string) string {
	b, err := json.Marshal(s)
	if err != nil {
		return `"` + s + `"`
	}
	return string(b)
}
