package model

import "strings"

type Visibility string

type ParamType string

const (
	VisibilityPublic        Visibility = "public"
	VisibilityPublisherOnly Visibility = "publisher_only"

	TypeString  ParamType = "string"
	TypeBool    ParamType = "bool"
	TypeUint32  ParamType = "uint32"
	TypeUint64  ParamType = "uint64"
	TypeInt32   ParamType = "int32"
	TypeFloat   ParamType = "float"
	TypeUnknown ParamType = ""
)

type Parameter struct {
	Name        string
	Type        ParamType
	Optional    bool
	Description string
}

// IsBool reports whether the parameter is rendered as a toggle.
func (p Parameter) IsBool() bool {
	return p.Type == TypeBool
}

type Method struct {
	Name        string
	HTTPMethod  string
	Version     int
	Visibility  Visibility
	Description string
	Parameters  []Parameter

	// IsFavorite is kept in sync with the favorites set; nothing else writes it.
	IsFavorite bool
}

type SearchEntry struct {
	Interface string
	Method    string
}

// QualifiedName returns "<iface>/<method>".
func QualifiedName(iface, method string) string {
	return iface + "/" + method
}

// SplitQualified splits a qualified name on its first slash.
func SplitQualified(name string) (iface, method string, ok bool) {
	iface, method, ok = strings.Cut(name, "/")
	return iface, method, ok
}

func (e SearchEntry) String() string {
	return QualifiedName(e.Interface, e.Method)
}
