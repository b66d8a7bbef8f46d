package repository

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/goccy/go-yaml"
	jsoniter "github.com/json-iterator/go"
)

// Format names an on-disk encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// Codec converts a Document to and from bytes.
type Codec interface {
	Marshal(doc *Document) ([]byte, error)
	Unmarshal(data []byte, doc *Document) error
}

var jsonAPI = jsoniter.ConfigCompatibleWithStandardLibrary

type jsonCodec struct{}

func (jsonCodec) Marshal(doc *Document) ([]byte, error) {
	return jsonAPI.MarshalIndent(doc, "", "  ")
}

func (jsonCodec) Unmarshal(data []byte, doc *Document) error {
	return jsonAPI.Unmarshal(data, doc)
}

type yamlCodec struct{}

func (yamlCodec) Marshal(doc *Document) ([]byte, error) {
	return yaml.Marshal(doc)
}

func (yamlCodec) Unmarshal(data []byte, doc *Document) error {
	return yaml.Unmarshal(data, doc)
}

// CodecFor returns the codec for format. An empty format is inferred from
// the file extension: .yaml and .yml select YAML, anything else JSON.
func CodecFor(format Format, path string) (Codec, error) {
	if format == "" {
		switch strings.ToLower(filepath.Ext(path)) {
		case ".yaml", ".yml":
			format = FormatYAML
		default:
			format = FormatJSON
		}
	}
	switch format {
	case FormatJSON:
		return jsonCodec{}, nil
	case FormatYAML:
		return yamlCodec{}, nil
	default:
		return nil, fmt.Errorf("unknown data format %q", format)
	}
}
