// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package web

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"path"
	"strconv"
	"strings"
	"time"

	"github.com/Masterminds/sprig/v3"
	"github.com/dustin/go-humanize"

	"github.com/danielhkuo/bankchat/models"
)

//go:embed templates
var templatesFS embed.FS

type LoginPage struct {
	Username string
	Error    string
}

type ChatPage struct {
	User          models.User
	Conversations []models.ConversationSummary
	Search        string
	Active        *models.Conversation
	Messages      []models.Message
	Suggestions   []string
	Error         string
}

// Renderer executes the embedded page templates. Each page is parsed on top
// of its own copy of the layout so pages can redefine the same blocks.
type Renderer struct {
	pages map[string]*template.Template
}

func NewRenderer() (*Renderer, error) {
	funcMap := sprig.HtmlFuncMap()
	funcMap["ago"] = ago
	funcMap["cell"] = cell
	funcMap["chartSrc"] = chartSrc

	base, err := template.New("").Funcs(funcMap).ParseFS(templatesFS,
		"templates/*.tmpl",
		"templates/includes/*.tmpl",
	)
	if err != nil {
		return nil, fmt.Errorf("parsing layout: %w", err)
	}

	files, err := fs.Glob(templatesFS, "templates/pages/*.tmpl")
	if err != nil {
		return nil, fmt.Errorf("listing pages: %w", err)
	}

	r := &Renderer{pages: make(map[string]*template.Template, len(files))}
	for _, file := range files {
		clone, err := base.Clone()
		if err != nil {
			return nil, fmt.Errorf("cloning layout: %w", err)
		}
		t, err := clone.ParseFS(templatesFS, file)
		if err != nil {
			return nil, fmt.Errorf("parsing %s: %w", file, err)
		}
		r.pages[strings.TrimSuffix(path.Base(file), ".tmpl")] = t
	}
	return r, nil
}

// Render writes page with the given status. Output is buffered so a template
// error never leaves a half-written page.
func (r *Renderer) Render(w http.ResponseWriter, status int, page string, data any) error {
	t, ok := r.pages[page]
	if !ok {
		return fmt.Errorf("unknown page %q", page)
	}

	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "base", data); err != nil {
		return fmt.Errorf("rendering %s: %w", page, err)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, err := buf.WriteTo(w)
	return err
}

// VisibleMessages drops the welcome greeting, which the page replaces with
// the suggestion panel.
func VisibleMessages(messages []models.Message) []models.Message {
	out := make([]models.Message, 0, len(messages))
	for _, m := range messages {
		if !m.IsWelcome() {
			out = append(out, m)
		}
	}
	return out
}

func ago(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return humanize.Time(t)
}

func cell(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(x)
	case map[string]any, []any:
		b, err := json.Marshal(x)
		if err != nil {
			return fmt.Sprint(x)
		}
		return string(b)
	}
	return fmt.Sprint(v)
}

// chartSrc marks chart sources safe for <img src>. Anything other than an
// http(s) URL or an image data URI is dropped.
func chartSrc(u string) template.URL {
	switch {
	case strings.HasPrefix(u, "https://"), strings.HasPrefix(u, "http://"), strings.HasPrefix(u, "data:image/"):
		return template.URL(u)
	}
	return ""
}
