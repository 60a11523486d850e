// Package wire carries chunks between processes as content-addressed CBOR
// envelopes. The envelope holds a chunk image plus the SHA-256 of that
// image, so a receiver can detect damage before disassembling anything.
package wire

import (
	"crypto/sha256"
	"errors"
	"fmt"

	"github.com/fxamacker/cbor/v2"

	"github.com/chazu/loxbc/pkg/bytecode"
)

// ErrHashMismatch is returned by Open when the image does not hash to the
// envelope's Hash.
var ErrHashMismatch = errors.New("wire: envelope hash mismatch")

// Envelope is the unit of chunk transfer.
type Envelope struct {
	Hash  [32]byte `cbor:"1,keyasint"`
	Name  string   `cbor:"2,keyasint,omitempty"`
	Image []byte   `cbor:"3,keyasint"` // bytecode.Chunk image
}

// cborEncMode uses canonical encoding so equal envelopes encode to equal
// bytes.
var cborEncMode cbor.EncMode

func init() {
	em, err := cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		panic(fmt.Sprintf("wire: failed to create CBOR enc mode: %v", err))
	}
	cborEncMode = em
}

// EncMode returns the canonical CBOR encoding mode used for envelopes.
func EncMode() cbor.EncMode {
	return cborEncMode
}

// Seal encodes c into an envelope under the given name.
func Seal(name string, c *bytecode.Chunk) (*Envelope, error) {
	image, err := c.MarshalBinary()
	if err != nil {
		return nil, fmt.Errorf("wire: encode chunk %q: %w", name, err)
	}
	return &Envelope{
		Hash:  sha256.Sum256(image),
		Name:  name,
		Image: image,
	}, nil
}

// Open verifies the envelope's hash and decodes its chunk.
func Open(env *Envelope) (*bytecode.Chunk, error) {
	if env == nil {
		return nil, fmt.Errorf("wire: nil envelope")
	}
	if sha256.Sum256(env.Image) != env.Hash {
		return nil, fmt.Errorf("%w: chunk %q", ErrHashMismatch, env.Name)
	}
	c, err := bytecode.Deserialize(env.Image)
	if err != nil {
		return nil, fmt.Errorf("wire: decode chunk %q: %w", env.Name, err)
	}
	return c, nil
}

// Marshal serializes an Envelope to CBOR bytes.
func Marshal(env *Envelope) ([]byte, error) {
	return cborEncMode.Marshal(env)
}

// Unmarshal deserializes an Envelope from CBOR bytes.
func Unmarshal(data []byte) (*Envelope, error) {
	var env Envelope
	if err := cbor.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("wire: unmarshal envelope: %w", err)
	}
	return &env, nil
}

// Decode reads a chunk from data, which may be either a CBOR envelope or a
// bare chunk image. The name is empty for bare images.
func Decode(data []byte) (string, *bytecode.Chunk, error) {
	if IsImage(data) {
		c, err := bytecode.Deserialize(data)
		return "", c, err
	}
	env, err := Unmarshal(data)
	if err != nil {
		return "", nil, err
	}
	c, err := Open(env)
	if err != nil {
		return env.Name, nil, err
	}
	return env.Name, c, nil
}

// IsImage reports whether data starts with the chunk image magic.
func IsImage(data []byte) bool {
	magic := bytecode.ImageMagic
	return len(data) >= len(magic) && string(data[:len(magic)]) == string(magic)
}
