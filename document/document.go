// Package document holds the JSON formats the editor exchanges with the
// outside world: saved drawings, clipboard envelopes and project bundles.
// Decoding validates everything before returning, so a failed load never
// hands back a half-built element list.
package document

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/KennethOlivas/zen-draw-sub000/element"
	"github.com/KennethOlivas/zen-draw-sub000/geometry"
)

const (
	Version           = 1
	ClipboardType     = "zendraw-clipboard"
	DefaultBackground = "#ffffff"
)

var (
	ErrInvalid      = errors.New("invalid document")
	ErrNotClipboard = errors.New("clipboard does not hold drawing elements")
)

// Document is a saved drawing.
type Document struct {
	Version         int                `json:"version"`
	Elements        []*element.Element `json:"elements"`
	BackgroundColor string             `json:"backgroundColor"`
}

func New(elements []*element.Element, background string) Document {
	if elements == nil {
		elements = []*element.Element{}
	}
	if background == "" {
		background = DefaultBackground
	}
	return Document{Version: Version, Elements: elements, BackgroundColor: background}
}

func (d Document) Encode() ([]byte, error) {
	return json.MarshalIndent(d, "", "  ")
}

// Decode parses and validates a saved drawing. Every failure wraps ErrInvalid.
func Decode(data []byte) (Document, error) {
	var d Document
	if err := json.Unmarshal(data, &d); err != nil {
		return Document{}, fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	if d.Version < 1 || d.Version > Version {
		return Document{}, fmt.Errorf("%w: unsupported version %d", ErrInvalid, d.Version)
	}
	if err := ValidateElements(d.Elements); err != nil {
		return Document{}, err
	}
	if d.Elements == nil {
		d.Elements = []*element.Element{}
	}
	if d.BackgroundColor == "" {
		d.BackgroundColor = DefaultBackground
	}
	return d, nil
}

// ValidateElements checks each element and that ids are unique.
func ValidateElements(elements []*element.Element) error {
	seen := make(map[string]bool, len(elements))
	for i, e := range elements {
		if e == nil {
			return fmt.Errorf("%w: element %d is null", ErrInvalid, i)
		}
		if err := e.Validate(); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalid, err)
		}
		if seen[e.ID] {
			return fmt.Errorf("%w: duplicate id %s", ErrInvalid, e.ID)
		}
		seen[e.ID] = true
	}
	return nil
}

func ReadFile(filename string) (Document, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return Document{}, err
	}
	d, err := Decode(data)
	if err != nil {
		return Document{}, fmt.Errorf("%s: %w", filename, err)
	}
	return d, nil
}

func WriteFile(filename string, d Document) error {
	data, err := d.Encode()
	if err != nil {
		return err
	}
	return os.WriteFile(filename, data, 0644)
}

// Envelope wraps elements on the system clipboard.
type Envelope struct {
	Type     string             `json:"type"`
	Elements []*element.Element `json:"elements"`
}

func EncodeClipboard(elements []*element.Element) ([]byte, error) {
	return json.Marshal(Envelope{Type: ClipboardType, Elements: elements})
}

// DecodeClipboard extracts elements from clipboard text. Text that is not an
// envelope at all yields ErrNotClipboard; a malformed envelope yields ErrInvalid.
func DecodeClipboard(text string) ([]*element.Element, error) {
	var envelope struct {
		Type     string          `json:"type"`
		Elements json.RawMessage `json:"elements"`
	}
	if err := json.Unmarshal([]byte(text), &envelope); err != nil || envelope.Type != ClipboardType {
		return nil, ErrNotClipboard
	}
	var elements []*element.Element
	if err := json.Unmarshal(envelope.Elements, &elements); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	if err := ValidateElements(elements); err != nil {
		return nil, err
	}
	return elements, nil
}

// Bundle is the opaque project payload handed to the persistence layer.
type Bundle struct {
	Elements        []*element.Element `json:"elements"`
	Viewport        geometry.Viewport  `json:"viewport"`
	BackgroundColor string             `json:"backgroundColor"`
}

func (b Bundle) Encode() ([]byte, error) {
	return json.Marshal(b)
}

func DecodeBundle(data []byte) (Bundle, error) {
	b := Bundle{Viewport: geometry.DefaultViewport()}
	if err := json.Unmarshal(data, &b); err != nil {
		return Bundle{}, fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	if err := ValidateElements(b.Elements); err != nil {
		return Bundle{}, err
	}
	if !geometry.Finite(b.Viewport.Zoom, b.Viewport.Pan.X, b.Viewport.Pan.Y) {
		return Bundle{}, fmt.Errorf("%w: non-finite viewport", ErrInvalid)
	}
	b.Viewport.Zoom = geometry.Clamp(b.Viewport.Zoom, geometry.MinZoom, geometry.MaxZoom)
	if b.Elements == nil {
		b.Elements = []*element.Element{}
	}
	if b.BackgroundColor == "" {
		b.BackgroundColor = DefaultBackground
	}
	return b, nil
}
