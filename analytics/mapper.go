// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package analytics

import (
	"errors"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/tidwall/gjson"

	"github.com/danielhkuo/bankchat/models"
)

const (
	UnexpectedFormatText = "Received an unexpected response format from BankerAI."
	TableParseErrorText  = "\n\nError: Could not display data table due to parsing error."
	DefaultChartAltText  = "Generated chart based on customer data."
)

// The service has shipped several response shapes; first match wins.
var (
	textPaths      = []string{"answer", "result.direct_answer", "response"}
	sqlPaths       = []string{"sql_query", "redshift_sql", "result.sql_query", "result.redshift_sql"}
	reasoningPaths = []string{"reasoning", "result.reasoning"}
	tablePaths     = []string{"dataframe", "result.dataframe"}
	chartPaths     = []string{"graphical_representation", "result.graphical_representation"}
)

var errBadDataframe = errors.New("dataframe is not a JSON object or array of objects")

// MapResponse converts a raw analytics response body into message content.
// A dataframe that cannot be parsed leaves a text-only message with an error note.
func MapResponse(body []byte) models.MessageContent {
	if !gjson.ValidBytes(body) {
		slog.Error("analytics response is not JSON", "bytes", len(body))
		return models.MessageContent{Text: UnexpectedFormatText}
	}
	res := gjson.ParseBytes(body)
	if !res.IsObject() {
		slog.Error("analytics response is not an object", "type", res.Type.String())
		return models.MessageContent{Text: UnexpectedFormatText}
	}

	var content models.MessageContent
	content.Text, _ = firstString(res, textPaths)

	if query, ok := firstString(res, sqlPaths); ok && strings.TrimSpace(query) != "" {
		content.SQLInfo = &models.SQLInfo{Query: query}
		content.SQLInfo.Reasoning, _ = firstString(res, reasoningPaths)
	}

	if df, ok := first(res, tablePaths); ok {
		cols, rows, err := parseDataframe(df)
		if err != nil {
			slog.Error("failed to parse dataframe", "error", err)
			content.Text += TableParseErrorText
		} else if len(rows) > 0 {
			content.TableColumns = cols
			content.TableData = rows
		}
	}

	if g, ok := first(res, chartPaths); ok {
		content.Chart = parseChart(g)
	}

	if content.Text == "" && content.SQLInfo == nil && !content.HasTable() && content.Chart == nil {
		slog.Error("analytics response has no recognised fields", "body", truncate(res.Raw, 500))
		content.Text = UnexpectedFormatText
	}

	return content
}

func first(res gjson.Result, paths []string) (gjson.Result, bool) {
	for _, p := range paths {
		if r := res.Get(p); r.Exists() && r.Type != gjson.Null {
			return r, true
		}
	}
	return gjson.Result{}, false
}

func firstString(res gjson.Result, paths []string) (string, bool) {
	for _, p := range paths {
		if r := res.Get(p); r.Type == gjson.String {
			return r.Str, true
		}
	}
	return "", false
}

// parseDataframe accepts records (array of objects), a single object, pandas
// "split" orientation, or any of those JSON-encoded inside a string.
func parseDataframe(df gjson.Result) ([]string, []map[string]any, error) {
	if df.Type == gjson.String {
		raw := strings.TrimSpace(df.Str)
		if raw == "" {
			return nil, nil, nil
		}
		if !gjson.Valid(raw) {
			return nil, nil, errBadDataframe
		}
		df = gjson.Parse(raw)
	}

	switch {
	case df.Type == gjson.Null:
		return nil, nil, nil
	case df.IsObject() && df.Get("columns").IsArray() && df.Get("data").IsArray():
		return splitOrientation(df)
	case df.IsObject():
		return recordRows([]gjson.Result{df})
	case df.IsArray():
		return recordRows(df.Array())
	}
	return nil, nil, errBadDataframe
}

func recordRows(items []gjson.Result) ([]string, []map[string]any, error) {
	if len(items) == 0 {
		return nil, nil, nil
	}

	rows := make([]map[string]any, 0, len(items))
	for _, item := range items {
		if !item.IsObject() {
			return nil, nil, errBadDataframe
		}
		row, _ := item.Value().(map[string]any)
		rows = append(rows, row)
	}

	// Column order follows the first record as written
	var cols []string
	items[0].ForEach(func(key, _ gjson.Result) bool {
		cols = append(cols, key.String())
		return true
	})
	return cols, rows, nil
}

func splitOrientation(df gjson.Result) ([]string, []map[string]any, error) {
	var cols []string
	for _, c := range df.Get("columns").Array() {
		cols = append(cols, c.String())
	}

	var rows []map[string]any
	for _, record := range df.Get("data").Array() {
		if !record.IsArray() {
			return nil, nil, errBadDataframe
		}
		values := record.Array()
		row := make(map[string]any, len(cols))
		for i, col := range cols {
			if i < len(values) {
				row[col] = values[i].Value()
			} else {
				row[col] = nil
			}
		}
		rows = append(rows, row)
	}
	return cols, rows, nil
}

func parseChart(g gjson.Result) *models.Chart {
	switch {
	case g.Type == gjson.String:
		url := chartURL(g.Str)
		if url == "" {
			return nil
		}
		return &models.Chart{URL: url, AltText: DefaultChartAltText}
	case g.IsObject():
		url := chartURL(firstOr(g, "url", "image"))
		if url == "" {
			return nil
		}
		alt := firstOr(g, "alt_text", "altText")
		if alt == "" {
			alt = DefaultChartAltText
		}
		return &models.Chart{URL: url, AltText: alt}
	}
	return nil
}

// chartURL passes URLs and data URIs through and wraps bare base64 as PNG.
func chartURL(s string) string {
	s = strings.TrimSpace(s)
	switch {
	case s == "":
		return ""
	case strings.HasPrefix(s, "data:"), strings.HasPrefix(s, "http://"), strings.HasPrefix(s, "https://"):
		return s
	}
	return "data:image/png;base64," + s
}

func firstOr(g gjson.Result, keys ...string) string {
	for _, k := range keys {
		if v := g.Get(k); v.Type == gjson.String && v.Str != "" {
			return v.Str
		}
	}
	return ""
}

// truncate cuts s to at most n bytes without splitting a UTF-8 sequence.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n] + "..."
}
