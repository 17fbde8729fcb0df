package parser

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"
)

// UnsupportedFormatError is returned by Resolve for unknown format names.
type UnsupportedFormatError struct {
	Format    string
	Supported []string
}

func (e *UnsupportedFormatError) Error() string {
	return fmt.Sprintf("Unsupported file format: %s. Supported formats: %s", e.Format, strings.Join(e.Supported, ", "))
}

// Registry maps lower-case format names to parsers. It is read-only after
// construction.
type Registry struct {
	parsers map[string]Parser
	names   []string
}

func NewRegistry(parsers ...Parser) *Registry {
	r := &Registry{parsers: make(map[string]Parser, len(parsers))}
	for _, p := range parsers {
		r.parsers[strings.ToLower(p.Format())] = p
	}
	for name := range r.parsers {
		r.names = append(r.names, name)
	}
	sort.Strings(r.names)
	return r
}

// DefaultRegistry knows csv, json and xml.
func DefaultRegistry() *Registry {
	return NewRegistry(NewCSVParser(), NewJSONParser(), NewXMLParser())
}

func (r *Registry) Resolve(format string) (Parser, error) {
	if p, ok := r.parsers[strings.ToLower(strings.TrimSpace(format))]; ok {
		return p, nil
	}
	return nil, &UnsupportedFormatError{Format: format, Supported: r.SupportedFormats()}
}

// SupportedFormats returns the registered names in sorted order.
func (r *Registry) SupportedFormats() []string {
	return append([]string(nil), r.names...)
}

// FormatFromFileName derives a format name from a file extension.
func FormatFromFileName(name string) string {
	return strings.ToLower(strings.TrimPrefix(filepath.Ext(name), "."))
}
