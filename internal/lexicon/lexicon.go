// Package lexicon loads the hype keyword and disclaimer phrase sets the
// lexical detectors match against.
//
// A Lexicon is immutable once built and safe for concurrent reads without
// synchronisation.
package lexicon

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// ConfigError reports a lexicon source that cannot be used. It is fatal at
// start-up.
type ConfigError struct {
	Path string
	Err  error
}

func (e *ConfigError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("lexicon: %v", e.Err)
	}
	return fmt.Sprintf("lexicon %q: %v", e.Path, e.Err)
}

func (e *ConfigError) Unwrap() error { return e.Err }

var (
	ErrMissingHypeKeywords      = errors.New("missing required field hype_keywords")
	ErrMissingDisclaimerPhrases = errors.New("missing required field disclaimer_phrases")
)

// document mirrors the on-disk layout. Pointers distinguish an absent field
// from an empty list.
type document struct {
	HypeKeywords      *[]string `yaml:"hype_keywords"`
	DisclaimerPhrases *[]string `yaml:"disclaimer_phrases"`
}

type Lexicon struct {
	hype        []string
	disclaimers []string
}

// Load reads the lexicon document at path. JSON and YAML are both accepted.
func Load(path string) (*Lexicon, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &ConfigError{Path: path, Err: err}
	}
	defer f.Close()

	lex, err := parse(f)
	if err != nil {
		return nil, &ConfigError{Path: path, Err: err}
	}

	slog.Info("[Lexicon] Loaded lexicon",
		slog.String("path", path),
		slog.Int("hype_keywords", len(lex.hype)),
		slog.Int("disclaimer_phrases", len(lex.disclaimers)))
	return lex, nil
}

// Parse decodes a lexicon document from r.
func Parse(r io.Reader) (*Lexicon, error) {
	lex, err := parse(r)
	if err != nil {
		return nil, &ConfigError{Err: err}
	}
	return lex, nil
}

func parse(r io.Reader) (*Lexicon, error) {
	var doc document
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("empty document")
		}
		return nil, fmt.Errorf("decode: %w", err)
	}

	if doc.HypeKeywords == nil {
		return nil, ErrMissingHypeKeywords
	}
	if doc.DisclaimerPhrases == nil {
		return nil, ErrMissingDisclaimerPhrases
	}

	return New(*doc.HypeKeywords, *doc.DisclaimerPhrases)
}

// New builds a lexicon from phrase lists. Phrases are trimmed, lower-cased
// and de-duplicated keeping first-seen order; each list must keep at least
// one phrase.
func New(hype, disclaimers []string) (*Lexicon, error) {
	h := normalize(hype)
	if len(h) == 0 {
		return nil, fmt.Errorf("%w: no usable phrases", ErrMissingHypeKeywords)
	}
	d := normalize(disclaimers)
	if len(d) == 0 {
		return nil, fmt.Errorf("%w: no usable phrases", ErrMissingDisclaimerPhrases)
	}
	return &Lexicon{hype: h, disclaimers: d}, nil
}

func normalize(phrases []string) []string {
	seen := make(map[string]struct{}, len(phrases))
	out := make([]string, 0, len(phrases))
	for _, p := range phrases {
		lp := strings.ToLower(strings.TrimSpace(p))
		if lp == "" {
			continue
		}
		if _, ok := seen[lp]; ok {
			continue
		}
		seen[lp] = struct{}{}
		out = append(out, lp)
	}
	return out
}

// HypePhrases returns a copy of the hype keyword list.
func (l *Lexicon) HypePhrases() []string {
	return append([]string(nil), l.hype...)
}

// DisclaimerPhrases returns a copy of the disclaimer phrase list.
func (l *Lexicon) DisclaimerPhrases() []string {
	return append([]string(nil), l.disclaimers...)
}

// EachHype calls fn for every hype phrase in order without copying.
func (l *Lexicon) EachHype(fn func(phrase string)) {
	for _, p := range l.hype {
		fn(p)
	}
}

// EachDisclaimer calls fn for every disclaimer phrase in order without copying.
func (l *Lexicon) EachDisclaimer(fn func(phrase string)) {
	for _, p := range l.disclaimers {
		fn(p)
	}
}
