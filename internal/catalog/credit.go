// Package catalog provides the static credit lookup table used as the
// primary source of truth for subject credit values.
package catalog

import (
	"encoding/json"
	"os"
	"regexp"
	"strings"

	"github.com/rs/zerolog"
)

var (
	codeSpaceRe = regexp.MustCompile(`\s+`)
	titleKeyRe  = regexp.MustCompile(`[^A-Z0-9]+`)
)

// CreditCatalog maps normalized subject codes and title keys to credit
// values. It is loaded once at startup and never mutated afterwards, so
// concurrent readers need no synchronization.
type CreditCatalog struct {
	byCode  map[string]float64
	byTitle map[string]float64
}

// Empty returns a catalog with no entries; every lookup misses.
func Empty() *CreditCatalog {
	return &CreditCatalog{
		byCode:  map[string]float64{},
		byTitle: map[string]float64{},
	}
}

// Load reads the credit table from a JSON file. The file is an array of
// records carrying a code-or-title field and a numeric credits field, under
// any of the historical field spellings. A missing or malformed file
// degrades to an empty catalog: credits simply resolve to unknown downstream,
// the pipeline itself must not fail.
func Load(path string, log zerolog.Logger) *CreditCatalog {
	c := Empty()

	raw, err := os.ReadFile(path)
	if err != nil {
		log.Warn().Err(err).Str("path", path).Msg("Credit catalog unavailable, using empty tables")
		return c
	}

	var records []map[string]any
	if err := json.Unmarshal(raw, &records); err != nil {
		log.Warn().Err(err).Str("path", path).Msg("Credit catalog malformed, using empty tables")
		return c
	}

	for _, rec := range records {
		credits, ok := numberField(rec, "credits", "Credits")
		if !ok {
			continue
		}

		// First definition per key wins.
		if code := NormalizeCode(stringField(rec, "code", "Code", "Subject_Code")); code != "" {
			if _, dup := c.byCode[code]; !dup {
				c.byCode[code] = credits
			}
		}
		if key := NormalizeTitleKey(stringField(rec, "Course_Title", "course_title", "Subject_Name")); key != "" {
			if _, dup := c.byTitle[key]; !dup {
				c.byTitle[key] = credits
			}
		}
	}

	log.Info().
		Int("by_code", len(c.byCode)).
		Int("by_title", len(c.byTitle)).
		Msg("Credit catalog loaded")
	return c
}

// CreditsByCode looks up credits by normalized subject code.
func (c *CreditCatalog) CreditsByCode(code string) (float64, bool) {
	v, ok := c.byCode[NormalizeCode(code)]
	return v, ok
}

// CreditsByTitle looks up credits by normalized subject title.
func (c *CreditCatalog) CreditsByTitle(title string) (float64, bool) {
	v, ok := c.byTitle[NormalizeTitleKey(title)]
	return v, ok
}

// NormalizeCode canonicalizes a subject code key: uppercase, no whitespace.
func NormalizeCode(code string) string {
	return codeSpaceRe.ReplaceAllString(strings.ToUpper(strings.TrimSpace(code)), "")
}

// NormalizeTitleKey canonicalizes a subject title key.
func NormalizeTitleKey(title string) string {
	t := strings.ToUpper(title)
	t = strings.ReplaceAll(t, "&", " AND ")
	t = titleKeyRe.ReplaceAllString(t, " ")
	return strings.TrimSpace(t)
}

func stringField(rec map[string]any, keys ...string) string {
	for _, k := range keys {
		if v, ok := rec[k].(string); ok && v != "" {
			return v
		}
	}
	return ""
}

func numberField(rec map[string]any, keys ...string) (float64, bool) {
	for _, k := range keys {
		if v, ok := rec[k].(float64); ok {
			return v, true
		}
	}
	return 0, false
}
