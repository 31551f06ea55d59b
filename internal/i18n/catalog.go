// Package i18n holds the display text of the questionnaire. The rubric only knows option
// values; prompts, labels and recommendations are looked up here by locale.
package i18n

import (
	"embed"
	"fmt"
	"io/fs"
	"path"
	"strings"

	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"

	"github.com/rd-risk-mcp-server/internal/domain"
	"github.com/rd-risk-mcp-server/internal/schema"
)

//go:embed locales/*.yaml
var localeFS embed.FS

// DefaultLocale is used when nothing better matches
const DefaultLocale = "en"

// TierText is the result advice shown for a tier
type TierText struct {
	Headline string `yaml:"headline" json:"headline"`
	Action   string `yaml:"action" json:"action"`
	Advice   string `yaml:"advice" json:"advice"`
}

type questionText struct {
	Prompt  string            `yaml:"prompt"`
	Label   string            `yaml:"label"`
	Options map[string]string `yaml:"options"`
}

// Locale is the display text for one language
type Locale struct {
	Tag        string                             `yaml:"locale"`
	Title      string                             `yaml:"title"`
	Intro      string                             `yaml:"intro"`
	Disclaimer string                             `yaml:"disclaimer"`
	Missing    string                             `yaml:"missing"`
	Sections   map[domain.Section]string          `yaml:"sections"`
	Options    map[string]string                  `yaml:"options"`
	Questions  map[domain.QuestionID]questionText `yaml:"questions"`
	Tiers      map[domain.Tier]TierText           `yaml:"tiers"`
}

// Prompt returns the question text, or the id when the locale has none
func (l *Locale) Prompt(id domain.QuestionID) string {
	if q, ok := l.Questions[id]; ok && q.Prompt != "" {
		return q.Prompt
	}
	return string(id)
}

// Label returns the short field name used in missing-field messages
func (l *Locale) Label(id domain.QuestionID) string {
	if q, ok := l.Questions[id]; ok && q.Label != "" {
		return q.Label
	}
	return string(id)
}

// Option returns the display label of an option value. Question-specific labels win over
// the shared ones.
func (l *Locale) Option(id domain.QuestionID, value string) string {
	if q, ok := l.Questions[id]; ok {
		if label, ok := q.Options[value]; ok {
			return label
		}
	}
	if label, ok := l.Options[value]; ok {
		return label
	}
	return value
}

func (l *Locale) hasOption(id domain.QuestionID, value string) bool {
	if q, ok := l.Questions[id]; ok {
		if _, ok := q.Options[value]; ok {
			return true
		}
	}
	_, ok := l.Options[value]
	return ok
}

// Section returns the heading of a questionnaire section
func (l *Locale) Section(s domain.Section) string {
	if title, ok := l.Sections[s]; ok {
		return title
	}
	return string(s)
}

// Tier returns the advice for a tier
func (l *Locale) Tier(t domain.Tier) TierText {
	return l.Tiers[t]
}

// MissingMessage renders the incomplete-questionnaire message for ids
func (l *Locale) MissingMessage(ids []domain.QuestionID) string {
	labels := make([]string, len(ids))
	for i, id := range ids {
		labels[i] = l.Label(id)
	}
	return fmt.Sprintf(l.Missing, strings.Join(labels, ", "))
}

// Catalog is the set of bundled locales
type Catalog struct {
	locales []*Locale
	matcher language.Matcher
}

// Load parses the bundled locales. defaultLocale is preferred when negotiation finds
// nothing; an unknown or empty value falls back to English.
func Load(defaultLocale string) (*Catalog, error) {
	entries, err := fs.ReadDir(localeFS, "locales")
	if err != nil {
		return nil, fmt.Errorf("failed to read locales: %w", err)
	}

	var locales []*Locale
	for _, entry := range entries {
		data, err := localeFS.ReadFile(path.Join("locales", entry.Name()))
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", entry.Name(), err)
		}
		var l Locale
		if err := yaml.Unmarshal(data, &l); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", entry.Name(), err)
		}
		if l.Tag == "" {
			return nil, fmt.Errorf("%s: locale tag is missing", entry.Name())
		}
		locales = append(locales, &l)
	}

	return newCatalog(locales, defaultLocale)
}

func newCatalog(locales []*Locale, defaultLocale string) (*Catalog, error) {
	if len(locales) == 0 {
		return nil, fmt.Errorf("no locales available")
	}
	if defaultLocale == "" {
		defaultLocale = DefaultLocale
	}

	// the matcher falls back to its first tag
	ordered := make([]*Locale, 0, len(locales))
	for _, l := range locales {
		if l.Tag == defaultLocale {
			ordered = append(ordered, l)
		}
	}
	if len(ordered) == 0 {
		for _, l := range locales {
			if l.Tag == DefaultLocale {
				ordered = append(ordered, l)
			}
		}
	}
	for _, l := range locales {
		if len(ordered) == 0 || l != ordered[0] {
			ordered = append(ordered, l)
		}
	}

	tags := make([]language.Tag, len(ordered))
	for i, l := range ordered {
		tag, err := language.Parse(l.Tag)
		if err != nil {
			return nil, fmt.Errorf("invalid locale tag %q: %w", l.Tag, err)
		}
		tags[i] = tag
	}

	return &Catalog{locales: ordered, matcher: language.NewMatcher(tags)}, nil
}

// Default returns the fallback locale
func (c *Catalog) Default() *Locale {
	return c.locales[0]
}

// Tags lists the available locale tags, default first
func (c *Catalog) Tags() []string {
	tags := make([]string, len(c.locales))
	for i, l := range c.locales {
		tags[i] = l.Tag
	}
	return tags
}

// Match picks the best locale for an Accept-Language header or a plain tag such as "es-MX".
// Unparseable input yields the default locale.
func (c *Catalog) Match(preference string) *Locale {
	preference = strings.TrimSpace(preference)
	if preference == "" {
		return c.Default()
	}
	tags, _, err := language.ParseAcceptLanguage(preference)
	if err != nil || len(tags) == 0 {
		return c.Default()
	}
	_, index, confidence := c.matcher.Match(tags...)
	if confidence == language.No {
		return c.Default()
	}
	return c.locales[index]
}

// Validate checks that every locale covers every question and option of s
func (c *Catalog) Validate(s *schema.Schema) error {
	for _, l := range c.locales {
		for _, q := range s.Questions() {
			text, ok := l.Questions[q.ID]
			if !ok || text.Prompt == "" || text.Label == "" {
				return fmt.Errorf("locale %s: question %s lacks prompt or label", l.Tag, q.ID)
			}
			if _, ok := l.Sections[q.Section]; !ok {
				return fmt.Errorf("locale %s: section %s has no title", l.Tag, q.Section)
			}
			for _, opt := range q.Options {
				if !l.hasOption(q.ID, opt) {
					return fmt.Errorf("locale %s: option %s of %s has no label", l.Tag, opt, q.ID)
				}
			}
		}
		for _, t := range domain.AllTiers {
			if l.Tiers[t].Headline == "" {
				return fmt.Errorf("locale %s: tier %s has no text", l.Tag, t)
			}
		}
	}
	return nil
}
