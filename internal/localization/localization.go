// Package localization holds the text of every outgoing notification. Strings
// are text/template sources keyed by message id, one JSON file per language,
// embedded into the binary.
package localization

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"
	"path"
	"strings"
	"sync"
	"text/template"
)

// DefaultLang is used when a key is missing from the requested language.
const DefaultLang = "en"

//go:embed messages/*.json
var messagesFS embed.FS

// Localizer manages the parsed templates for the application.
type Localizer struct {
	templates map[string]map[string]*template.Template
	mu        sync.RWMutex
}

// NewLocalizer parses every embedded message file.
func NewLocalizer() (*Localizer, error) {
	l := &Localizer{
		templates: make(map[string]map[string]*template.Template),
	}

	files, err := messagesFS.ReadDir("messages")
	if err != nil {
		return nil, fmt.Errorf("failed to read message catalog: %w", err)
	}

	for _, file := range files {
		if file.IsDir() || !strings.HasSuffix(file.Name(), ".json") {
			continue
		}

		lang := strings.TrimSuffix(file.Name(), ".json")
		data, err := messagesFS.ReadFile(path.Join("messages", file.Name()))
		if err != nil {
			return nil, fmt.Errorf("failed to read message file %s: %w", file.Name(), err)
		}

		var sources map[string]string
		if err := json.Unmarshal(data, &sources); err != nil {
			return nil, fmt.Errorf("failed to parse message file %s: %w", file.Name(), err)
		}

		parsed := make(map[string]*template.Template, len(sources))
		for key, src := range sources {
			tmpl, err := template.New(key).Option("missingkey=error").Parse(src)
			if err != nil {
				return nil, fmt.Errorf("message %s/%s: %w", lang, key, err)
			}
			parsed[key] = tmpl
		}
		l.templates[lang] = parsed
	}

	if _, ok := l.templates[DefaultLang]; !ok {
		return nil, fmt.Errorf("message catalog has no %q file", DefaultLang)
	}

	return l, nil
}

// Render executes the message template for key with data. An unknown key
// falls back to the default language and then to the key itself.
func (l *Localizer) Render(lang, key string, data any) string {
	tmpl := l.lookup(lang, key)
	if tmpl == nil {
		return key
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return key
	}
	return buf.String()
}

func (l *Localizer) lookup(lang, key string) *template.Template {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if tmpls, ok := l.templates[lang]; ok {
		if t, ok := tmpls[key]; ok {
			return t
		}
	}
	if lang != DefaultLang {
		if t, ok := l.templates[DefaultLang][key]; ok {
			return t
		}
	}
	return nil
}
