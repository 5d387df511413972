package openapi

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"

	"steamdocs/internal/model"
)

const (
	extVisibility = "x-steam-visibility"
	extParamType  = "x-steam-type"
)

// Steam paths look like /ISteamUser/GetPlayerSummaries/v2/
var steamPath = regexp.MustCompile(`^/([^/]+)/([^/]+)/v(\d+)/?$`)

// Parse loads and validates an OpenAPI 3 document.
func Parse(ctx context.Context, data []byte) (*openapi3.T, error) {
	loader := &openapi3.Loader{Context: ctx}
	doc, err := loader.LoadFromData(data)
	if err != nil {
		return nil, err
	}
	if err := doc.Validate(ctx); err != nil {
		return nil, err
	}
	return doc, nil
}

// ToCatalog maps each GET/POST operation to a catalog method. Paths in the
// Steam shape give interface, method and version directly; other paths
// fall back to the first tag and the operation id.
func ToCatalog(doc *openapi3.T) *model.Catalog {
	cat := model.NewCatalog()
	if doc == nil || doc.Paths == nil {
		return cat
	}

	paths := doc.Paths.Map()
	keys := make([]string, 0, len(paths))
	for p := range paths {
		keys = append(keys, p)
	}
	sort.Strings(keys)

	for _, path := range keys {
		item := paths[path]
		if item == nil {
			continue
		}
		addOp := func(httpMethod string, op *openapi3.Operation) {
			if op == nil {
				return
			}
			iface, name, version := splitPath(path, op)
			m := &model.Method{
				Name:        name,
				HTTPMethod:  httpMethod,
				Version:     version,
				Visibility:  visibilityOf(op),
				Description: strings.TrimSpace(firstNonEmpty(op.Description, op.Summary)),
			}

			params := append(openapi3.Parameters{}, item.Parameters...)
			params = append(params, op.Parameters...)
			for _, p := range params {
				if p == nil || p.Value == nil || p.Value.In != openapi3.ParameterInQuery {
					continue
				}
				m.Parameters = append(m.Parameters, model.Parameter{
					Name:        p.Value.Name,
					Type:        paramType(p.Value),
					Optional:    !p.Value.Required,
					Description: strings.TrimSpace(p.Value.Description),
				})
			}
			cat.AddMethod(iface, m)
		}
		addOp("GET", item.Get)
		addOp("POST", item.Post)
	}
	return cat
}

func splitPath(path string, op *openapi3.Operation) (iface, method string, version int) {
	if sm := steamPath.FindStringSubmatch(path); sm != nil {
		v, _ := strconv.Atoi(sm[3])
		return sm[1], sm[2], v
	}
	iface = "Default"
	if len(op.Tags) > 0 && strings.TrimSpace(op.Tags[0]) != "" {
		iface = strings.TrimSpace(op.Tags[0])
	}
	method = strings.TrimSpace(op.OperationID)
	if method == "" {
		method = strings.Trim(path, "/")
	}
	return iface, method, 1
}

func visibilityOf(op *openapi3.Operation) model.Visibility {
	if v, ok := op.Extensions[extVisibility].(string); ok && model.Visibility(v) == model.VisibilityPublisherOnly {
		return model.VisibilityPublisherOnly
	}
	return model.VisibilityPublic
}

func paramType(p *openapi3.Parameter) model.ParamType {
	if t, ok := p.Extensions[extParamType].(string); ok && t != "" {
		return model.ParamType(t)
	}
	if p.Schema == nil || p.Schema.Value == nil || p.Schema.Value.Type == nil {
		return model.TypeString
	}
	t := p.Schema.Value.Type
	switch {
	case t.Is("boolean"):
		return model.TypeBool
	case t.Is("integer"):
		if p.Schema.Value.Format == "int32" {
			return model.TypeInt32
		}
		return model.TypeUint32
	case t.Is("number"):
		return model.TypeFloat
	}
	return model.TypeString
}

// Hosts are the servers written into an exported document.
type Hosts struct {
	Public  string
	Partner string
}

// FromCatalog describes every catalog method as an OpenAPI 3 operation.
func FromCatalog(cat *model.Catalog, title string, hosts Hosts) *openapi3.T {
	doc := &openapi3.T{
		OpenAPI: "3.0.3",
		Info:    &openapi3.Info{Title: title, Version: "1"},
		Paths:   openapi3.NewPaths(),
	}
	for _, h := range []string{hosts.Public, hosts.Partner} {
		if h != "" {
			doc.Servers = append(doc.Servers, &openapi3.Server{URL: strings.TrimRight(h, "/")})
		}
	}

	for _, iface := range cat.Interfaces() {
		for _, m := range iface.Methods() {
			op := &openapi3.Operation{
				OperationID: iface.Name + "_" + m.Name,
				Summary:     model.QualifiedName(iface.Name, m.Name),
				Description: m.Description,
				Tags:        []string{iface.Name},
				Extensions:  map[string]any{extVisibility: string(m.Visibility)},
				Responses:   &openapi3.Responses{},
			}
			op.Responses.Set("200", &openapi3.ResponseRef{
				Value: openapi3.NewResponse().WithDescription("OK"),
			})
			for _, p := range m.Parameters {
				param := openapi3.NewQueryParameter(p.Name).
					WithDescription(p.Description).
					WithRequired(!p.Optional).
					WithSchema(schemaFor(p.Type))
				param.Extensions = map[string]any{extParamType: string(p.Type)}
				op.Parameters = append(op.Parameters, &openapi3.ParameterRef{Value: param})
			}

			path := fmt.Sprintf("/%s/%s/v%d/", iface.Name, m.Name, m.Version)
			item := doc.Paths.Value(path)
			if item == nil {
				item = &openapi3.PathItem{}
				doc.Paths.Set(path, item)
			}
			if m.HTTPMethod == "POST" {
				item.Post = op
			} else {
				item.Get = op
			}
		}
	}
	return doc
}

func schemaFor(t model.ParamType) *openapi3.Schema {
	switch t {
	case model.TypeBool:
		return openapi3.NewBoolSchema()
	case model.TypeInt32:
		return openapi3.NewInt32Schema()
	case model.TypeUint32, model.TypeUint64:
		return openapi3.NewIntegerSchema()
	case model.TypeFloat:
		return openapi3.NewFloat64Schema()
	}
	return openapi3.NewStringSchema()
}

func firstNonEmpty(a, b string) string {
	if strings.TrimSpace(a) != "" {
		return a
	}
	return b
}
