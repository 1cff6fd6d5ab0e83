package keywords

import (
	_ "embed"
	"fmt"
	"os"
	"regexp"
	"sync"

	"github.com/Masterminds/semver/v3"
	"gopkg.in/yaml.v3"

	asmerror "github.com/msto63/asmfmt/pkg/core/error"
)

// SupportedVersions is the schema range this build understands
const SupportedVersions = ">= 1.0.0, < 2.0.0"

//go:embed default.yaml
var defaultDocument []byte

var (
	defaultTable *Table
	defaultOnce  sync.Once
)

// Document is the on-disk shape of a keyword table. JSON documents decode
// through the same path.
type Document struct {
	Version          string   `yaml:"version"`
	Instructions     []string `yaml:"instructions"`
	Prefixes         []string `yaml:"prefixes"`
	Directives       []string `yaml:"directives"`
	NasmInstructions []string `yaml:"nasm_instructions"`
	NasmPrefixes     []string `yaml:"nasm_prefixes"`
}

var namePattern = regexp.MustCompile(`^[A-Za-z_.][A-Za-z0-9_.]*$`)

// Default returns the embedded x86 / NASM table
func Default() *Table {
	defaultOnce.Do(func() {
		table, err := Parse(defaultDocument)
		if err != nil {
			panic(fmt.Sprintf("keywords: embedded table is invalid: %v", err))
		}
		defaultTable = table
	})
	return defaultTable
}

// Load reads and validates a keyword table file
func Load(path string) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, asmerror.Wrap(err, "failed to read keyword table").
			WithCode(asmerror.CodeIO).
			WithDetail("path", path).
			WithOperation("keywords.Load")
	}

	table, err := Parse(data)
	if err != nil {
		return nil, asmerror.Wrap(err, "failed to load keyword table").
			WithDetail("path", path).
			WithOperation("keywords.Load")
	}
	return table, nil
}

// Parse decodes a YAML or JSON table document, merges the nasm extension
// sets into the base sets and validates the result.
func Parse(data []byte) (*Table, error) {
	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, asmerror.Wrap(err, "malformed keyword table").
			WithCode(asmerror.CodeInvalidKeywordTable)
	}

	if err := CheckVersion(doc.Version); err != nil {
		return nil, err
	}

	instructions := append(append([]string{}, doc.Instructions...), doc.NasmInstructions...)
	prefixes := append(append([]string{}, doc.Prefixes...), doc.NasmPrefixes...)

	if len(instructions) == 0 {
		return nil, asmerror.New("keyword table has no instructions").
			WithCode(asmerror.CodeInvalidKeywordTable)
	}
	for _, set := range [][]string{instructions, prefixes, doc.Directives} {
		for _, name := range set {
			if !namePattern.MatchString(name) {
				return nil, asmerror.Newf("invalid keyword name %q", name).
					WithCode(asmerror.CodeInvalidKeywordTable)
			}
		}
	}

	table := NewTable(instructions, prefixes, doc.Directives)
	table.version = doc.Version

	if err := table.checkDisjoint(); err != nil {
		return nil, err
	}
	return table, nil
}

// CheckVersion verifies a schema version against SupportedVersions. An empty
// version is accepted as the current schema.
func CheckVersion(version string) error {
	if version == "" {
		return nil
	}

	v, err := semver.NewVersion(version)
	if err != nil {
		return asmerror.Wrap(err, "invalid keyword table version").
			WithCode(asmerror.CodeInvalidKeywordTable).
			WithDetail("version", version)
	}

	c, err := semver.NewConstraint(SupportedVersions)
	if err != nil {
		return asmerror.Wrap(err, "invalid supported version range").
			WithCode(asmerror.CodeInternal)
	}

	if !c.Check(v) {
		return asmerror.Newf("keyword table version %s is not supported (want %s)", v, SupportedVersions).
			WithCode(asmerror.CodeIncompatibleKeywordTable).
			WithDetail("version", version)
	}
	return nil
}

func (t *Table) checkDisjoint() error {
	sets := []struct {
		kind Kind
		set  map[string]struct{}
	}{
		{Instruction, t.instructions},
		{Prefix, t.prefixes},
		{Directive, t.directives},
	}

	for i := 0; i < len(sets); i++ {
		for j := i + 1; j < len(sets); j++ {
			for name := range sets[i].set {
				if _, dup := sets[j].set[name]; dup {
					return asmerror.Newf("keyword %s is both %s and %s", name, sets[i].kind, sets[j].kind).
						WithCode(asmerror.CodeInvalidKeywordTable).
						WithDetail("keyword", name)
				}
			}
		}
	}
	return nil
}
