// Package lexicon holds the read-only symptom vocabulary: specialist
// categories with their keywords, and the emergency trigger terms.
//
// The default lexicon is embedded in the binary and parsed once per process.
// A *Lexicon is never mutated after construction, so it is shared freely
// between goroutines.
package lexicon

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"iter"
	"os"
	"slices"
	"strings"
	"sync"

	"golang.org/x/text/unicode/norm"
	"gopkg.in/yaml.v3"

	"github.com/zatekoja/symptomatch/backend/internal/domain/entities"
	apperrors "github.com/zatekoja/symptomatch/backend/pkg/errors"
)

//go:embed lexicon.yaml
var embeddedLexicon []byte

var loadDefault = sync.OnceValues(func() (*Lexicon, error) {
	return Parse(embeddedLexicon)
})

// Lexicon maps specialist categories to keywords and holds the emergency terms.
type Lexicon struct {
	categories     []entities.SpecialistCategory
	emergencyTerms []string
	byName         map[string]int
}

type document struct {
	EmergencyTerms []string                      `yaml:"emergency_terms"`
	Categories     []entities.SpecialistCategory `yaml:"categories"`
}

// Default returns the embedded lexicon. It is parsed on first use and the
// same instance is returned on every call.
func Default() (*Lexicon, error) {
	return loadDefault()
}

// MustDefault is Default for program initialisation; it panics if the
// embedded asset is invalid.
func MustDefault() *Lexicon {
	lex, err := Default()
	if err != nil {
		panic(fmt.Sprintf("lexicon: embedded asset is invalid: %v", err))
	}
	return lex
}

// LoadFile parses a lexicon YAML file, e.g. an operator-supplied replacement
// for the embedded one.
func LoadFile(path string) (*Lexicon, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read lexicon file: %w", err)
	}
	return Parse(data)
}

// Parse decodes and validates a lexicon YAML document. Unknown fields are rejected.
func Parse(data []byte) (*Lexicon, error) {
	var doc document
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, apperrors.NewValidationError("lexicon document is empty")
		}
		return nil, apperrors.NewValidationErrorf("failed to parse lexicon: %v", err)
	}
	return New(doc.Categories, doc.EmergencyTerms)
}

// New builds a lexicon from categories (in tie-break order) and emergency
// terms. Keywords and terms are normalized with Normalize, empty entries are
// dropped and duplicates removed keeping the first occurrence. It fails when
// there are no categories, a category has no name or no keywords, or two
// categories share a name.
func New(categories []entities.SpecialistCategory, emergencyTerms []string) (*Lexicon, error) {
	if len(categories) == 0 {
		return nil, apperrors.NewValidationError("lexicon has no specialist categories")
	}

	lex := &Lexicon{
		categories:     make([]entities.SpecialistCategory, 0, len(categories)),
		emergencyTerms: dedupe(emergencyTerms),
		byName:         make(map[string]int, len(categories)),
	}

	for i, c := range categories {
		name := strings.TrimSpace(c.Name)
		if name == "" {
			return nil, apperrors.NewValidationErrorf("category at index %d: missing name", i)
		}
		if _, dup := lex.byName[name]; dup {
			return nil, apperrors.NewValidationErrorf("category %q: duplicate name", name)
		}
		keywords := dedupe(c.Keywords)
		if len(keywords) == 0 {
			return nil, apperrors.NewValidationErrorf("category %q: no keywords", name)
		}

		lex.byName[name] = len(lex.categories)
		lex.categories = append(lex.categories, entities.SpecialistCategory{
			Name:     name,
			Icon:     strings.TrimSpace(c.Icon),
			Keywords: keywords,
		})
	}

	return lex, nil
}

// Normalize folds text the way keywords are stored: trimmed, NFC-composed and
// lowercased. Accents are kept.
func Normalize(s string) string {
	return strings.ToLower(norm.NFC.String(strings.TrimSpace(s)))
}

// Len returns the number of categories.
func (l *Lexicon) Len() int {
	return len(l.categories)
}

// All iterates the categories in lexicon order. Yielded keyword slices are
// shared with the lexicon and must not be modified.
func (l *Lexicon) All() iter.Seq[entities.SpecialistCategory] {
	return func(yield func(entities.SpecialistCategory) bool) {
		for _, c := range l.categories {
			if !yield(c) {
				return
			}
		}
	}
}

// Categories returns a deep copy of the categories in lexicon order.
func (l *Lexicon) Categories() []entities.SpecialistCategory {
	out := make([]entities.SpecialistCategory, len(l.categories))
	for i, c := range l.categories {
		c.Keywords = slices.Clone(c.Keywords)
		out[i] = c
	}
	return out
}

// Lookup finds a category by its exact specialist name.
func (l *Lexicon) Lookup(name string) (entities.SpecialistCategory, bool) {
	i, ok := l.byName[name]
	if !ok {
		return entities.SpecialistCategory{}, false
	}
	c := l.categories[i]
	c.Keywords = slices.Clone(c.Keywords)
	return c, true
}

// EmergencyTerms returns a copy of the emergency trigger terms.
func (l *Lexicon) EmergencyTerms() []string {
	return slices.Clone(l.emergencyTerms)
}

// MatchEmergency returns the first emergency term contained in the already
// normalized text.
func (l *Lexicon) MatchEmergency(normalized string) (string, bool) {
	for _, term := range l.emergencyTerms {
		if strings.Contains(normalized, term) {
			return term, true
		}
	}
	return "", false
}

func dedupe(terms []string) []string {
	seen := make(map[string]struct{}, len(terms))
	out := make([]string, 0, len(terms))
	for _, t := range terms {
		t = Normalize(t)
		if t == "" {
			continue
		}
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}
