// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package analytics

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestMapResponseText(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"answer", `{"answer":"Top customer is ACME"}`, "Top customer is ACME"},
		{"direct answer", `{"result":{"direct_answer":"42 accounts"}}`, "42 accounts"},
		{"response", `{"response":"hello"}`, "hello"},
		{"answer wins", `{"answer":"a","response":"b"}`, "a"},
		{"not json", `<html>oops</html>`, UnexpectedFormatText},
		{"array", `[1,2,3]`, UnexpectedFormatText},
		{"no known fields", `{"foo":"bar"}`, UnexpectedFormatText},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MapResponse([]byte(tt.body))
			if got.Text != tt.want {
				t.Errorf("Text = %q, want %q", got.Text, tt.want)
			}
		})
	}
}

func TestMapResponseSQL(t *testing.T) {
	got := MapResponse([]byte(`{"answer":"ok","redshift_sql":"SELECT 1","reasoning":"simple"}`))
	if got.SQLInfo == nil {
		t.Fatal("expected SQL info")
	}
	if got.SQLInfo.Query != "SELECT 1" {
		t.Errorf("Query = %q", got.SQLInfo.Query)
	}
	if got.SQLInfo.Reasoning != "simple" {
		t.Errorf("Reasoning = %q", got.SQLInfo.Reasoning)
	}

	got = MapResponse([]byte(`{"answer":"ok","sql_query":"SELECT 2","redshift_sql":"SELECT 3"}`))
	if got.SQLInfo == nil || got.SQLInfo.Query != "SELECT 2" {
		t.Errorf("sql_query should take precedence, got %+v", got.SQLInfo)
	}
}

func TestMapResponseDataframe(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		wantRows int
		wantCols []string
		degraded bool
	}{
		{
			name:     "string records",
			body:     `{"answer":"ok","dataframe":"[{\"name\":\"ACME\",\"balance\":100},{\"name\":\"Globex\",\"balance\":50}]"}`,
			wantRows: 2,
			wantCols: []string{"name", "balance"},
		},
		{
			name:     "inline array",
			body:     `{"answer":"ok","dataframe":[{"b":1,"a":2}]}`,
			wantRows: 1,
			wantCols: []string{"b", "a"},
		},
		{
			name:     "single object",
			body:     `{"answer":"ok","dataframe":{"total":7}}`,
			wantRows: 1,
			wantCols: []string{"total"},
		},
		{
			name:     "split orientation",
			body:     `{"answer":"ok","dataframe":{"columns":["id","amt"],"data":[[1,10],[2,20],[3,30]]}}`,
			wantRows: 3,
			wantCols: []string{"id", "amt"},
		},
		{
			name: "empty array",
			body: `{"answer":"ok","dataframe":"[]"}`,
		},
		{
			name:     "malformed string",
			body:     `{"answer":"ok","dataframe":"[{not json"}`,
			degraded: true,
		},
		{
			name:     "scalar",
			body:     `{"answer":"ok","dataframe":12}`,
			degraded: true,
		},
		{
			name:     "array of scalars",
			body:     `{"answer":"ok","dataframe":[1,2]}`,
			degraded: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MapResponse([]byte(tt.body))

			if tt.degraded {
				if got.Text != "ok"+TableParseErrorText {
					t.Errorf("Text = %q, want degraded text", got.Text)
				}
				if got.HasTable() {
					t.Error("degraded message should not carry a table")
				}
				return
			}

			if got.Text != "ok" {
				t.Errorf("Text = %q, want ok", got.Text)
			}
			if len(got.TableData) != tt.wantRows {
				t.Fatalf("rows = %d, want %d", len(got.TableData), tt.wantRows)
			}
			if strings.Join(got.TableColumns, ",") != strings.Join(tt.wantCols, ",") {
				t.Errorf("columns = %v, want %v", got.TableColumns, tt.wantCols)
			}
		})
	}
}

func TestMapResponseChart(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"url", `{"answer":"x","graphical_representation":"https://charts.example/a.png"}`, "https://charts.example/a.png"},
		{"data uri", `{"answer":"x","graphical_representation":"data:image/svg+xml;base64,AAA"}`, "data:image/svg+xml;base64,AAA"},
		{"raw base64", `{"answer":"x","graphical_representation":"iVBORw0KGgo"}`, "data:image/png;base64,iVBORw0KGgo"},
		{"object", `{"answer":"x","graphical_representation":{"url":"https://c/x.png"}}`, "https://c/x.png"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MapResponse([]byte(tt.body))
			if got.Chart == nil {
				t.Fatal("expected chart")
			}
			if got.Chart.URL != tt.want {
				t.Errorf("URL = %q, want %q", got.Chart.URL, tt.want)
			}
			if got.Chart.AltText != DefaultChartAltText {
				t.Errorf("AltText = %q", got.Chart.AltText)
			}
		})
	}

	if got := MapResponse([]byte(`{"answer":"x","graphical_representation":""}`)); got.Chart != nil {
		t.Error("empty chart string should not produce a chart")
	}
}

func TestMapResponseWithoutText(t *testing.T) {
	got := MapResponse([]byte(`{"sql_query":"SELECT 1","dataframe":[{"n":1}]}`))
	if got.Text != "" {
		t.Errorf("Text = %q, want empty when other fields are present", got.Text)
	}
	if got.SQLInfo == nil || !got.HasTable() {
		t.Error("expected SQL and table to be kept")
	}
}

func TestTruncateKeepsRunes(t *testing.T) {
	tests := []struct {
		in   string
		n    int
		want string
	}{
		{"short", 10, "short"},
		{"abcdef", 3, "abc..."},
		{"ééé", 3, "é..."}, // 2-byte runes, cut falls inside the second
		{"€uro", 2, "..."},
	}

	for _, tt := range tests {
		got := truncate(tt.in, tt.n)
		if got != tt.want {
			t.Errorf("truncate(%q, %d) = %q, want %q", tt.in, tt.n, got, tt.want)
		}
		if !utf8.ValidString(got) {
			t.Errorf("truncate(%q, %d) produced invalid UTF-8", tt.in, tt.n)
		}
	}
}
