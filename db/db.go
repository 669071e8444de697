// Package db defines the persisted form of keyframe channels and the
// repository used to store them.
package db

import (
	"bytes"
	"context"
	"encoding/json"
	"encoding/xml"
	"errors"
	"strconv"
	"strings"

	"github.com/cbsinteractive/keyframes/keyframe"
	"github.com/mitchellh/hashstructure"
)

var (
	ErrChannelNotFound = errors.New("channel not found")
	ErrMissingID       = errors.New("channel id is required")
)

// Repository stores channel documents.
type Repository interface {
	Get(ctx context.Context, id string) (*Channel, error)
	Put(ctx context.Context, ch *Channel) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]string, error)
}

// Channel is the document form of a keyframe channel. Keyframes are kept
// in ascending time order.
type Channel struct {
	XMLName   xml.Name      `json:"-" xml:"channel" hash:"ignore"`
	ID        string        `json:"id" xml:"id,attr,omitempty"`
	Name      string        `json:"name" xml:"name,attr"`
	Kind      keyframe.Kind `json:"kind" xml:"kind,attr,omitempty"`
	Keyframes []Keyframe    `json:"keyframes" xml:"keyframe"`

	// Skipped counts keyframe elements dropped while decoding XML
	// because their attributes were malformed.
	Skipped int `json:"-" xml:"-" hash:"ignore"`
}

// Keyframe is one keyframe record. Payload is the kind specific encoding
// produced by the keyframe's codec.
type Keyframe struct {
	Time       int             `json:"time" xml:"time,attr"`
	ColorLabel uint8           `json:"colorLabel,omitempty" xml:"color-label,attr"`
	Payload    json.RawMessage `json:"payload,omitempty" xml:",chardata"`
}

// Validate checks the document is storable.
func (c *Channel) Validate() error {
	if c.ID == "" {
		return ErrMissingID
	}
	return nil
}

// Checksum hashes the whole document, payloads included.
func (c *Channel) Checksum() (uint64, error) {
	return hashstructure.Hash(c, nil)
}

// UnmarshalXML decodes a channel element, keeping only its keyframe
// children. Element names are compared case-insensitively.
func (c *Channel) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	c.XMLName = start.Name
	for _, a := range start.Attr {
		switch a.Name.Local {
		case "id":
			c.ID = a.Value
		case "name":
			c.Name = a.Value
		case "kind":
			c.Kind = keyframe.Kind(a.Value)
		}
	}
	for {
		tok, err := d.Token()
		if err != nil {
			return err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			if !strings.EqualFold(t.Name.Local, "keyframe") {
				if err := d.Skip(); err != nil {
					return err
				}
				continue
			}
			var raw rawKeyframe
			if err := d.DecodeElement(&raw, &t); err != nil {
				return err
			}
			k, ok := raw.keyframe()
			if !ok {
				c.Skipped++
				continue
			}
			c.Keyframes = append(c.Keyframes, k)
		case xml.EndElement:
			return nil
		}
	}
}

// MarshalXML writes the payload as the element's character data.
// encoding/xml only emits chardata from a plain []byte or string.
func (k Keyframe) MarshalXML(e *xml.Encoder, start xml.StartElement) error {
	return e.EncodeElement(struct {
		Time       int    `xml:"time,attr"`
		ColorLabel uint8  `xml:"color-label,attr"`
		Payload    []byte `xml:",chardata"`
	}{k.Time, k.ColorLabel, k.Payload}, start)
}

type rawKeyframe struct {
	Time       string `xml:"time,attr"`
	ColorLabel string `xml:"color-label,attr"`
	Payload    []byte `xml:",chardata"`
}

func (r rawKeyframe) keyframe() (Keyframe, bool) {
	t, err := strconv.Atoi(strings.TrimSpace(r.Time))
	if err != nil {
		return Keyframe{}, false
	}
	k := Keyframe{Time: t}
	if r.ColorLabel != "" {
		c, err := strconv.ParseUint(strings.TrimSpace(r.ColorLabel), 10, 8)
		if err != nil {
			return Keyframe{}, false
		}
		k.ColorLabel = uint8(c)
	}
	if p := bytes.TrimSpace(r.Payload); len(p) != 0 {
		k.Payload = json.RawMessage(p)
	}
	return k, true
}
