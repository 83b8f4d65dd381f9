package layerfixture

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/arborcomp/primforge/layer"
	"github.com/arborcomp/primforge/pathkit"
)

// Layer is an in-memory, hand-authored or YAML-loaded stand-in for a
// parsed scene-description layer. It never reads a file itself; callers
// either build one with NewLayer and LayerOption values, or decode one
// from a YAML document with LoadLayerFromYAML.
type Layer struct {
	id          string
	defaultPrim pathkit.Path
	tcps        float64
	specs       map[string]map[string]layer.Value
}

// LayerOption configures a fixture Layer at construction time.
type LayerOption func(*Layer)

// WithDefaultPrim sets the layer's defaultPrim metadata.
func WithDefaultPrim(p pathkit.Path) LayerOption {
	return func(l *Layer) { l.defaultPrim = p }
}

// WithTimeCodesPerSecond sets the layer's timeCodesPerSecond metadata.
func WithTimeCodesPerSecond(v float64) LayerOption {
	return func(l *Layer) { l.tcps = v }
}

// WithSpec declares a spec at path, carrying the given fields (an empty
// fields map still counts as "has a spec").
func WithSpec(path pathkit.Path, fields map[string]layer.Value) LayerOption {
	return func(l *Layer) {
		if fields == nil {
			fields = map[string]layer.Value{}
		}
		l.specs[path.String()] = fields
	}
}

// NewLayer builds a fixture Layer identified by identifier (used only
// for diagnostics and cycle detection, per layer.Layer.Identifier).
func NewLayer(identifier string, opts ...LayerOption) *Layer {
	l := &Layer{
		id:          identifier,
		defaultPrim: pathkit.AbsoluteRootPath,
		tcps:        24.0,
		specs:       make(map[string]map[string]layer.Value),
	}
	for _, opt := range opts {
		opt(l)
	}

	return l
}

type yamlSpec struct {
	Fields map[string]interface{} `yaml:"fields"`
}

type yamlLayer struct {
	Identifier         string              `yaml:"identifier"`
	DefaultPrim        string              `yaml:"defaultPrim"`
	TimeCodesPerSecond float64             `yaml:"timeCodesPerSecond"`
	Specs              map[string]yamlSpec `yaml:"specs"`
}

// LoadLayerFromYAML decodes a fixture layer from a small YAML document
// of the shape:
//
//	identifier: root.yaml
//	defaultPrim: /Foo
//	timeCodesPerSecond: 24
//	specs:
//	  /Foo:
//	    fields: {kind: def}
//	  /Foo/Bar: {}
func LoadLayerFromYAML(data []byte) (*Layer, error) {
	var yl yamlLayer
	if err := yaml.Unmarshal(data, &yl); err != nil {
		return nil, fmt.Errorf("layerfixture: decoding layer: %w", err)
	}

	l := NewLayer(yl.Identifier, WithTimeCodesPerSecond(valueOr(yl.TimeCodesPerSecond, 24.0)))

	if yl.DefaultPrim != "" {
		dp, err := pathkit.ParsePath(yl.DefaultPrim)
		if err != nil {
			return nil, fmt.Errorf("layerfixture: defaultPrim: %w", err)
		}
		l.defaultPrim = dp
	}

	for rawPath, spec := range yl.Specs {
		p, err := pathkit.ParsePath(rawPath)
		if err != nil {
			return nil, fmt.Errorf("layerfixture: spec path %q: %w", rawPath, err)
		}
		fields := make(map[string]layer.Value, len(spec.Fields))
		for k, v := range spec.Fields {
			fields[k] = v
		}
		l.specs[p.String()] = fields
	}

	return l, nil
}

func valueOr(v, fallback float64) float64 {
	if v == 0 {
		return fallback
	}

	return v
}

// HasSpec reports whether path has a declared spec in this layer.
func (l *Layer) HasSpec(path pathkit.Path) bool {
	_, ok := l.specs[path.String()]

	return ok
}

// HasField reports whether field is authored at path.
func (l *Layer) HasField(path pathkit.Path, field string) (layer.Value, bool) {
	fields, ok := l.specs[path.String()]
	if !ok {
		return nil, false
	}
	v, ok := fields[field]

	return v, ok
}

// GetField returns field's value at path, or nil if absent.
func (l *Layer) GetField(path pathkit.Path, field string) layer.Value {
	v, _ := l.HasField(path, field)

	return v
}

// GetDefaultPrim returns the layer's defaultPrim metadata.
func (l *Layer) GetDefaultPrim() pathkit.Path { return l.defaultPrim }

// GetTimeCodesPerSecond returns the layer's timeCodesPerSecond metadata.
func (l *Layer) GetTimeCodesPerSecond() float64 { return l.tcps }

// Identifier returns the layer's diagnostic identifier string.
func (l *Layer) Identifier() string { return l.id }
