package request

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"steamdocs/internal/model"
)

const (
	DefaultPublicHost  = "https://api.steampowered.com/"
	DefaultPartnerHost = "https://partner.steam-api.com/"
	DefaultFormat      = "json"
)

var (
	hex32   = regexp.MustCompile(`(?i)^[0-9a-f]{32}$`)
	steamID = regexp.MustCompile(`^[0-9]{17}$`)
)

func ValidAPIKey(s string) bool      { return hex32.MatchString(s) }
func ValidAccessToken(s string) bool { return hex32.MatchString(s) }
func ValidSteamID(s string) bool     { return steamID.MatchString(s) }

type Hosts struct {
	Public  string
	Partner string
}

func DefaultHosts() Hosts {
	return Hosts{Public: DefaultPublicHost, Partner: DefaultPartnerHost}
}

// For picks the host serving m: the partner host for publisher-only
// methods, the public host otherwise.
func (h Hosts) For(m *model.Method) string {
	host := h.Public
	if m != nil && m.Visibility == model.VisibilityPublisherOnly {
		host = h.Partner
	}
	if !strings.HasSuffix(host, "/") {
		host += "/"
	}
	return host
}

// RequestURL renders "<host><iface>/<method>/v<version>/".
func RequestURL(hosts Hosts, iface, method string, m *model.Method) string {
	version := 1
	if m != nil {
		version = m.Version
	}
	return fmt.Sprintf("%s%s/%s/v%d/", hosts.For(m), iface, method, version)
}

type Credentials struct {
	APIKey      string
	AccessToken string
}

// HasAuth reports whether AuthQuery would emit anything.
func (c Credentials) HasAuth() bool {
	return ValidAccessToken(c.AccessToken) || ValidAPIKey(c.APIKey)
}

// AuthQuery renders the auth pair without a leading delimiter. A valid
// access token wins over a valid key; invalid values are never sent.
func AuthQuery(c Credentials) string {
	var q query
	switch {
	case ValidAccessToken(c.AccessToken):
		q.set("access_token", c.AccessToken)
	case ValidAPIKey(c.APIKey):
		q.set("key", c.APIKey)
	}
	return q.encode()
}

// ParameterQuery renders the format (when not json) and fields. The result
// starts with "&" when an auth pair precedes it, "?" otherwise, and is
// empty when there is nothing to send.
func ParameterQuery(fields []Field, format string, hasAuth bool) string {
	var q query
	if format != "" && format != DefaultFormat {
		q.set("format", format)
	}
	for _, f := range fields {
		q.set(f.Name, f.Value)
	}

	s := q.encode()
	switch {
	case s == "":
		return ""
	case hasAuth:
		return "&" + s
	}
	return "?" + s
}

// QueryString joins the auth pair and parameters. At most one "?" is
// ever emitted.
func QueryString(c Credentials, format string, fields []Field) string {
	auth := AuthQuery(c)
	params := ParameterQuery(fields, format, auth != "")
	if auth == "" {
		return params
	}
	return "?" + auth + params
}

// Call is a fully rendered request.
type Call struct {
	Method string
	URL    string
}

// Build renders the request for iface/method with the overlay's values.
func Build(hosts Hosts, c Credentials, format string, o *Overlay, iface, method string, m *model.Method) Call {
	httpMethod := "GET"
	if m != nil && m.HTTPMethod != "" {
		httpMethod = strings.ToUpper(m.HTTPMethod)
	}
	return Call{
		Method: httpMethod,
		URL:    RequestURL(hosts, iface, method, m) + QueryString(c, format, o.Fields(iface, method, m)),
	}
}

// query is an insertion-ordered form encoding; setting an existing name
// replaces its value in place.
type query struct {
	names  []string
	values map[string]string
}

func (q *query) set(name, value string) {
	if q.values == nil {
		q.values = map[string]string{}
	}
	if _, ok := q.values[name]; !ok {
		q.names = append(q.names, name)
	}
	q.values[name] = value
}

func (q *query) encode() string {
	var b strings.Builder
	for i, name := range q.names {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(formEscape(name))
		b.WriteByte('=')
		b.WriteString(formEscape(q.values[name]))
	}
	return b.String()
}

var formReplacer = strings.NewReplacer("%2A", "*", "~", "%7E")

// formEscape is url.QueryEscape with the browser form-encoding set:
// '*' stays literal and '~' is escaped.
func formEscape(s string) string {
	return formReplacer.Replace(url.QueryEscape(s))
}
