// Package tokens produces the opaque secrets embedded in verification
// and password-reset links.
package tokens

import "github.com/dmitrijs2005/gophauth/internal/common"

// Generator returns a new unguessable token on every call.
type Generator interface {
	Generate() (string, error)
}

// HexGenerator reads Size bytes from crypto/rand and hex encodes them.
type HexGenerator struct {
	Size int
}

// NewHexGenerator returns a generator with common.VerificationTokenSize
// bytes of entropy.
func NewHexGenerator() *HexGenerator {
	return &HexGenerator{Size: common.VerificationTokenSize}
}

func (g *HexGenerator) Generate() (string, error) {
	return common.MakeRandHexString(g.Size)
}

// GeneratorFunc adapts a plain function to Generator.
type GeneratorFunc func() (string, error)

func (f GeneratorFunc) Generate() (string, error) {
	return f()
}
