package catalog

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"steamdocs/internal/model"
)

// methodDoc is the on-disk shape of one method in a Steam-style catalog:
//
//	{"ISteamUser": {"GetPlayerSummaries": {"version": 2, "httpmethod": "GET",
//	  "_type": "publisher_only", "parameters": [{"name": "steamids", ...}]}}}
type methodDoc struct {
	Version     int        `json:"version" yaml:"version"`
	HTTPMethod  string     `json:"httpmethod" yaml:"httpmethod"`
	Type        string     `json:"_type" yaml:"_type"`
	Description string     `json:"description" yaml:"description"`
	Parameters  []paramDoc `json:"parameters" yaml:"parameters"`
}

type paramDoc struct {
	Name        string `json:"name" yaml:"name"`
	Type        string `json:"type" yaml:"type"`
	Optional    bool   `json:"optional" yaml:"optional"`
	Description string `json:"description" yaml:"description"`
}

func (d methodDoc) toModel(name string) *model.Method {
	m := &model.Method{
		Name:        name,
		HTTPMethod:  strings.ToUpper(strings.TrimSpace(d.HTTPMethod)),
		Version:     d.Version,
		Visibility:  model.VisibilityPublic,
		Description: strings.TrimSpace(d.Description),
	}
	if m.HTTPMethod == "" {
		m.HTTPMethod = "GET"
	}
	if model.Visibility(d.Type) == model.VisibilityPublisherOnly {
		m.Visibility = model.VisibilityPublisherOnly
	}
	for _, p := range d.Parameters {
		m.Parameters = append(m.Parameters, model.Parameter{
			Name:        p.Name,
			Type:        model.ParamType(p.Type),
			Optional:    p.Optional,
			Description: strings.TrimSpace(p.Description),
		})
	}
	return m
}

// decodeJSON walks the two outer object levels token by token so interface
// and method declaration order survives; encoding into a Go map would lose it.
func decodeJSON(r io.Reader) (*model.Catalog, error) {
	dec := json.NewDecoder(r)
	cat := model.NewCatalog()

	if err := expectDelim(dec, '{'); err != nil {
		return nil, err
	}
	for dec.More() {
		ifaceName, err := stringToken(dec)
		if err != nil {
			return nil, err
		}
		if err := expectDelim(dec, '{'); err != nil {
			return nil, fmt.Errorf("interface %s: %w", ifaceName, err)
		}
		iface := model.NewInterface(ifaceName)
		for dec.More() {
			methodName, err := stringToken(dec)
			if err != nil {
				return nil, fmt.Errorf("interface %s: %w", ifaceName, err)
			}
			var doc methodDoc
			if err := dec.Decode(&doc); err != nil {
				return nil, fmt.Errorf("method %s: %w", model.QualifiedName(ifaceName, methodName), err)
			}
			iface.Add(doc.toModel(methodName))
		}
		if err := expectDelim(dec, '}'); err != nil {
			return nil, err
		}
		cat.Add(iface)
	}
	if err := expectDelim(dec, '}'); err != nil {
		return nil, err
	}
	return cat, nil
}

func expectDelim(dec *json.Decoder, want json.Delim) error {
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != want {
		return fmt.Errorf("expected %q, got %v", want, tok)
	}
	return nil
}

func stringToken(dec *json.Decoder) (string, error) {
	tok, err := dec.Token()
	if err != nil {
		return "", err
	}
	s, ok := tok.(string)
	if !ok {
		return "", fmt.Errorf("expected object key, got %v", tok)
	}
	return s, nil
}

// decodeYAML reads the same shape as decodeJSON from YAML, using the node
// tree for key order.
func decodeYAML(data []byte) (*model.Catalog, error) {
	var root yaml.Node
	if err := yaml.NewDecoder(bytes.NewReader(data)).Decode(&root); err != nil {
		return nil, err
	}
	if root.Kind != yaml.DocumentNode || len(root.Content) == 0 {
		return model.NewCatalog(), nil
	}
	top := root.Content[0]
	if top.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("line %d: catalog must be a mapping", top.Line)
	}

	cat := model.NewCatalog()
	for i := 0; i+1 < len(top.Content); i += 2 {
		ifaceName := top.Content[i].Value
		methods := top.Content[i+1]
		if methods.Kind != yaml.MappingNode {
			return nil, fmt.Errorf("line %d: interface %s must be a mapping", methods.Line, ifaceName)
		}
		iface := model.NewInterface(ifaceName)
		for j := 0; j+1 < len(methods.Content); j += 2 {
			methodName := methods.Content[j].Value
			var doc methodDoc
			if err := methods.Content[j+1].Decode(&doc); err != nil {
				return nil, fmt.Errorf("method %s: %w", model.QualifiedName(ifaceName, methodName), err)
			}
			iface.Add(doc.toModel(methodName))
		}
		cat.Add(iface)
	}
	return cat, nil
}
