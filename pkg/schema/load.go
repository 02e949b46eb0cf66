package schema

import (
	"bytes"
	"embed"
	"fmt"
	"io"
	"os"

	"github.com/aretw0/espalier/internal/compiler"
	"github.com/aretw0/espalier/pkg/domain"
	"gopkg.in/yaml.v3"
)

//go:embed defaults/*.yaml
var defaults embed.FS

// ParseSignature decodes and compiles a YAML signature.
func ParseSignature(data []byte) (*Signature, error) {
	var def SignatureDef
	if err := decodeStrict(data, &def); err != nil {
		return nil, fmt.Errorf("failed to parse signature: %w", err)
	}
	return def.Compile()
}

// ParsePipeline decodes a YAML pipeline. Validation happens in Build.
func ParsePipeline(data []byte) (*PipelineDef, error) {
	var def PipelineDef
	if err := decodeStrict(data, &def); err != nil {
		return nil, fmt.Errorf("failed to parse pipeline: %w", err)
	}
	return &def, nil
}

// LoadSignature reads a signature file.
func LoadSignature(path string) (*Signature, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseSignature(data)
}

// LoadPipeline reads a pipeline file.
func LoadPipeline(path string) (*PipelineDef, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParsePipeline(data)
}

// DefaultSignature is the embedded boolean algebra.
func DefaultSignature() *Signature {
	sig, err := ParseSignature(mustDefault("boolean.yaml"))
	if err != nil {
		panic(fmt.Sprintf("embedded signature: %v", err))
	}
	return sig
}

// DefaultPipeline is the embedded simplify/canonicalize pipeline.
func DefaultPipeline() *PipelineDef {
	p, err := ParsePipeline(mustDefault("pipeline.yaml"))
	if err != nil {
		panic(fmt.Sprintf("embedded pipeline: %v", err))
	}
	return p
}

func mustDefault(name string) []byte {
	data, err := defaults.ReadFile("defaults/" + name)
	if err != nil {
		panic(err)
	}
	return data
}

func decodeStrict(data []byte, v any) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(v); err != nil && err != io.EOF {
		return err
	}
	return nil
}

// ParseTerm reads a term over the signature, in prefix or JSON notation.
func (s *Signature) ParseTerm(text string) (*domain.Term[string], error) {
	return compiler.NewParser(s.Resolve, s.Arity).Parse(text)
}
