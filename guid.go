package ecs

import "github.com/google/uuid"

// Guid is a 128-bit identifier used for persistent component type ids,
// blob-store keys, and asset ids. It holds the UUID's 16 bytes as four
// big-endian int32 words; the YAML serializer writes it as its canonical
// UUID string (see MarshalYAML).
type Guid [4]int32

// NilGuid is the zero Guid, used as a sentinel for "no persistent identity".
var NilGuid = Guid{}

// NewGuid returns a fresh random Guid backed by google/uuid.
func NewGuid() Guid {
	return guidFromUUID(uuid.New())
}

// MustParseGuid parses a canonical UUID string into a Guid, panicking on
// malformed input. Intended for constant persistent-component ids declared
// at package init time.
func MustParseGuid(s string) Guid {
	return guidFromUUID(uuid.MustParse(s))
}

func guidFromUUID(id uuid.UUID) Guid {
	var g Guid
	for i := 0; i < 4; i++ {
		g[i] = int32(uint32(id[i*4])<<24 | uint32(id[i*4+1])<<16 | uint32(id[i*4+2])<<8 | uint32(id[i*4+3]))
	}
	return g
}

func (g Guid) toUUID() uuid.UUID {
	var id uuid.UUID
	for i := 0; i < 4; i++ {
		v := uint32(g[i])
		id[i*4] = byte(v >> 24)
		id[i*4+1] = byte(v >> 16)
		id[i*4+2] = byte(v >> 8)
		id[i*4+3] = byte(v)
	}
	return id
}

// String renders the Guid in canonical UUID form.
func (g Guid) String() string {
	return g.toUUID().String()
}

// IsNil reports whether g is the zero Guid.
func (g Guid) IsNil() bool {
	return g == NilGuid
}

// MarshalYAML renders a Guid as its canonical UUID string rather than a
// four-element integer sequence, so saved worlds read like ordinary
// GUID-keyed YAML documents.
func (g Guid) MarshalYAML() (interface{}, error) {
	if g.IsNil() {
		return "", nil
	}
	return g.String(), nil
}

// UnmarshalYAML parses a Guid back from its canonical UUID string form.
func (g *Guid) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}
	if s == "" {
		*g = NilGuid
		return nil
	}
	*g = MustParseGuid(s)
	return nil
}
