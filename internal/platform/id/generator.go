package id

import (
	"fmt"

	"github.com/google/uuid"
	gonanoid "github.com/matoous/go-nanoid/v2"
)

// InviteCodeAlphabet skips characters that are easy to misread (0/O, 1/I).
const InviteCodeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

const InviteCodeLength = 8

// Generator creates opaque IDs suitable for external references.
type Generator interface {
	NewID() (string, error)
}

// CodeGenerator creates short human-shareable codes.
type CodeGenerator interface {
	NewCode() (string, error)
}

// UUIDGenerator yields time-ordered UUIDv7 strings so primary keys stay index friendly.
type UUIDGenerator struct{}

func NewUUIDGenerator() *UUIDGenerator {
	return &UUIDGenerator{}
}

func (g *UUIDGenerator) NewID() (string, error) {
	v, err := uuid.NewV7()
	if err != nil {
		return "", fmt.Errorf("generate uuid v7: %w", err)
	}
	return v.String(), nil
}

type NanoCodeGenerator struct {
	alphabet string
	length   int
}

func NewInviteCodeGenerator() *NanoCodeGenerator {
	return &NanoCodeGenerator{alphabet: InviteCodeAlphabet, length: InviteCodeLength}
}

func (g *NanoCodeGenerator) NewCode() (string, error) {
	code, err := gonanoid.Generate(g.alphabet, g.length)
	if err != nil {
		return "", fmt.Errorf("generate invite code: %w", err)
	}
	return code, nil
}
