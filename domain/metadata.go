package domain

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"golang.org/x/xerrors"

	"github.com/x-xyz/pixel-relayer/base/ctx"
)

var (
	ErrMetadataNotObject  = errors.New("metadata is not a json object")
	ErrIncompleteMetadata = errors.New("incomplete metadata")
)

type Metadata struct {
	Name        string            `json:"name"`
	Description string            `json:"description"`
	Image       string            `json:"image"`
	Attributes  map[string]string `json:"attributes"`
}

type metadataJson struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Image       string          `json:"image"`
	Attributes  json.RawMessage `json:"attributes"`
}

type trait struct {
	TraitType string      `json:"trait_type"`
	Value     interface{} `json:"value"`
}

// UnmarshalJSON accepts attributes either as an object or as an opensea trait list.
// The document itself must be an object, null included is rejected.
func (m *Metadata) UnmarshalJSON(data []byte) error {
	if trimmed := bytes.TrimSpace(data); len(trimmed) == 0 || trimmed[0] != '{' {
		return ErrMetadataNotObject
	}
	var raw metadataJson
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	attrs, err := parseAttributes(raw.Attributes)
	if err != nil {
		return err
	}

	*m = Metadata{
		Name:        raw.Name,
		Description: raw.Description,
		Image:       raw.Image,
		Attributes:  attrs,
	}
	return nil
}

// Validate requires the fields a mint is built from
func (m *Metadata) Validate() error {
	if m.Name == "" {
		return xerrors.Errorf("name: %w", ErrIncompleteMetadata)
	}
	if m.Image == "" {
		return xerrors.Errorf("image: %w", ErrIncompleteMetadata)
	}
	return nil
}

func parseAttributes(raw json.RawMessage) (map[string]string, error) {
	attrs := map[string]string{}
	if len(raw) == 0 || string(raw) == "null" {
		return attrs, nil
	}

	var obj map[string]interface{}
	if err := json.Unmarshal(raw, &obj); err == nil {
		for k, v := range obj {
			attrs[k] = stringify(v)
		}
		return attrs, nil
	}

	var list []trait
	if err := json.Unmarshal(raw, &list); err != nil {
		return nil, err
	}
	for _, t := range list {
		if t.TraitType == "" {
			continue
		}
		attrs[t.TraitType] = stringify(t.Value)
	}
	return attrs, nil
}

func stringify(v interface{}) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case float64, bool:
		return fmt.Sprint(val)
	default:
		b, _ := json.Marshal(val)
		return string(b)
	}
}

type MetadataUseCase interface {
	// Resolve fetches metadata when uriOrJson is an absolute url, otherwise parses it as inline json
	Resolve(ctx.Ctx, string) (*Metadata, error)
}
