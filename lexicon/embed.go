// Package lexicon embeds the query-intent and domain tables for compile-time inclusion.
// Each YAML file under v1/ may declare intents (trigger sub-strings with a
// weight and a ranking bonus) and domains (keywords, matching catalog
// categories and a ranking bonus). Triggers and keywords are bilingual
// (English and Russian) and matched as lower-case sub-strings.
//
// Usage:
//
//	intent.LoadLexicon(lexicon.FS, "v1")
package lexicon

import "embed"

//go:embed v1/*.yaml
var FS embed.FS
