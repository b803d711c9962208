package intent

import (
	"fmt"
	"io/fs"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Intent names shipped in the default lexicon.
const (
	CreateProject = "create_project"
	FindTemplate  = "find_template"
	LearnAbout    = "learn_about"
	SolveProblem  = "solve_problem"
)

// IntentDef is one intent category: every trigger found in a query adds
// Weight to the intent's score.
type IntentDef struct {
	Name          string   `yaml:"name"`
	Label         string   `yaml:"label"`
	Weight        float64  `yaml:"weight"`
	SemanticBonus float64  `yaml:"semantic_bonus,omitempty"`
	Triggers      []string `yaml:"triggers"`
}

// DomainDef is one domain category: the query's domain score is the number
// of distinct keywords it contains. Categories lists the catalog categories
// (or template path segments) that belong to the domain.
type DomainDef struct {
	Name         string   `yaml:"name"`
	Label        string   `yaml:"label"`
	ContextBonus float64  `yaml:"context_bonus"`
	Categories   []string `yaml:"categories"`
	Keywords     []string `yaml:"keywords"`
}

// lexiconFile is the YAML document shape. A file may carry either list.
type lexiconFile struct {
	Intents []IntentDef `yaml:"intents"`
	Domains []DomainDef `yaml:"domains"`
}

// Lexicon is the full set of intent and domain definitions.
type Lexicon struct {
	Intents []IntentDef
	Domains []DomainDef

	intentByName map[string]int
	domainByName map[string]int
}

// LoadLexicon reads all YAML files from an fs.FS directory.
// Files are loaded in sorted order; definitions keep their file order.
// Triggers, keywords and categories are lower-cased on load.
func LoadLexicon(fsys fs.FS, dir string) (*Lexicon, error) {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return nil, fmt.Errorf("read lexicon dir %q: %w", dir, err)
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Name() < entries[j].Name()
	})

	var all lexiconFile
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".yaml") {
			continue
		}

		path := dir + "/" + entry.Name()
		data, err := fs.ReadFile(fsys, path)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}

		var f lexiconFile
		if err := yaml.Unmarshal(data, &f); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
		all.Intents = append(all.Intents, f.Intents...)
		all.Domains = append(all.Domains, f.Domains...)
	}

	return NewLexicon(all.Intents, all.Domains)
}

// NewLexicon validates the definitions and builds a Lexicon.
func NewLexicon(intents []IntentDef, domains []DomainDef) (*Lexicon, error) {
	if len(intents) == 0 && len(domains) == 0 {
		return nil, fmt.Errorf("lexicon is empty")
	}

	lex := &Lexicon{
		intentByName: make(map[string]int, len(intents)),
		domainByName: make(map[string]int, len(domains)),
	}

	for _, d := range intents {
		if d.Name == "" {
			return nil, fmt.Errorf("intent: missing name")
		}
		if _, dup := lex.intentByName[d.Name]; dup {
			return nil, fmt.Errorf("duplicate intent %q", d.Name)
		}
		if d.Weight <= 0 {
			return nil, fmt.Errorf("intent %q: weight must be positive", d.Name)
		}
		if d.SemanticBonus < 0 || d.SemanticBonus > 1 {
			return nil, fmt.Errorf("intent %q: semantic_bonus %v out of range 0-1", d.Name, d.SemanticBonus)
		}
		d.Triggers = lowerAll(d.Triggers)
		if len(d.Triggers) == 0 {
			return nil, fmt.Errorf("intent %q: no triggers", d.Name)
		}
		lex.intentByName[d.Name] = len(lex.Intents)
		lex.Intents = append(lex.Intents, d)
	}

	for _, d := range domains {
		if d.Name == "" {
			return nil, fmt.Errorf("domain: missing name")
		}
		if _, dup := lex.domainByName[d.Name]; dup {
			return nil, fmt.Errorf("duplicate domain %q", d.Name)
		}
		if d.ContextBonus < 0 || d.ContextBonus > 1 {
			return nil, fmt.Errorf("domain %q: context_bonus %v out of range 0-1", d.Name, d.ContextBonus)
		}
		d.Keywords = lowerAll(d.Keywords)
		if len(d.Keywords) == 0 {
			return nil, fmt.Errorf("domain %q: no keywords", d.Name)
		}
		d.Categories = lowerAll(d.Categories)
		lex.domainByName[d.Name] = len(lex.Domains)
		lex.Domains = append(lex.Domains, d)
	}

	return lex, nil
}

// Intent returns the definition of the named intent.
func (l *Lexicon) Intent(name string) (IntentDef, bool) {
	i, ok := l.intentByName[name]
	if !ok {
		return IntentDef{}, false
	}
	return l.Intents[i], true
}

// Domain returns the definition of the named domain.
func (l *Lexicon) Domain(name string) (DomainDef, bool) {
	i, ok := l.domainByName[name]
	if !ok {
		return DomainDef{}, false
	}
	return l.Domains[i], true
}

// HasCategory reports whether category belongs to the named domain.
func (d DomainDef) HasCategory(category string) bool {
	category = strings.ToLower(category)
	for _, c := range d.Categories {
		if c == category {
			return true
		}
	}
	return false
}

// lowerAll lower-cases and trims entries, dropping empty and repeated ones.
func lowerAll(in []string) []string {
	out := make([]string, 0, len(in))
	seen := make(map[string]bool, len(in))
	for _, s := range in {
		s = strings.ToLower(strings.TrimSpace(s))
		if s == "" || seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	return out
}
