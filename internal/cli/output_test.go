package cli

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"strings"
	"testing"

	"github.com/pfrederiksen/pitcher-luck/internal/pitcher"
	"github.com/pfrederiksen/pitcher-luck/internal/render"
	"github.com/pfrederiksen/pitcher-luck/internal/view"
)

func sampleResult() *TableResult {
	era := 2.39
	rows := []pitcher.Record{
		{
			PitcherID: "skubt001", Name: "Tarik Skubal", Year: 2024, Team: "DET",
			GamesStarted: 3, Wins: 2, Losses: 1,
			Decisions:  []pitcher.Decision{pitcher.Win, pitcher.Loss, pitcher.Win},
			RunSupport: 4.4, TeamErrors: 0.5, ERA: &era,
		},
		{PitcherID: "rooki001", Name: "No Era", Year: 2024, Team: "NYA", GamesStarted: 1, RunSupport: 2.0},
	}
	sel := view.Default(2024)
	return &TableResult{Selection: sel, Description: sel.String(), Count: len(rows), Rows: rows}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    OutputFormat
		wantErr bool
	}{
		{"text", FormatText, false},
		{"JSON", FormatJSON, false},
		{" csv ", FormatCSV, false},
		{"yaml", "", true},
	}

	for _, tt := range tests {
		got, err := ParseFormat(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseFormat(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
		}
		if got != tt.want {
			t.Errorf("ParseFormat(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestWriteOutput_JSON(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteOutput(&buf, sampleResult(), FormatJSON); err != nil {
		t.Fatalf("WriteOutput() error = %v", err)
	}

	var decoded TableResult
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if decoded.Count != 2 || len(decoded.Rows) != 2 {
		t.Errorf("decoded count = %d, rows = %d", decoded.Count, len(decoded.Rows))
	}
	if decoded.Selection.SortKey != view.SortWins {
		t.Errorf("decoded sort = %q", decoded.Selection.SortKey)
	}
	if decoded.Rows[1].ERA != nil {
		t.Error("missing ERA should stay missing")
	}
}

func TestWriteOutput_CSV(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteOutput(&buf, sampleResult(), FormatCSV); err != nil {
		t.Fatalf("WriteOutput() error = %v", err)
	}

	records, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("output is not valid CSV: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("got %d CSV records, want header + 2", len(records))
	}
	if strings.Join(records[0], ",") != strings.Join(csvHeader, ",") {
		t.Errorf("header = %v", records[0])
	}
	want := []string{"2024", "DET", "skubt001", "Tarik Skubal", "3", "2", "1", "2-1", "2.39", "4.4", "0.5", "W L W"}
	if strings.Join(records[1], "|") != strings.Join(want, "|") {
		t.Errorf("row = %v, want %v", records[1], want)
	}
	if records[2][8] != "" {
		t.Errorf("missing ERA = %q, want empty", records[2][8])
	}
}

func TestWriteOutput_Text(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteOutput(&buf, sampleResult(), FormatText); err != nil {
		t.Fatalf("WriteOutput() error = %v", err)
	}

	out := buf.String()
	for _, want := range []string{render.Title, "Tarik Skubal", "2-1", "NYY", "N/A", "Total: 2 pitchers"} {
		if !strings.Contains(out, want) {
			t.Errorf("text output missing %q:\n%s", want, out)
		}
	}
}

func TestWriteOutput_TextEmpty(t *testing.T) {
	result := &TableResult{Selection: view.Default(2024), Description: "2024 | Teams: COL"}

	var buf bytes.Buffer
	if err := WriteOutput(&buf, result, FormatText); err != nil {
		t.Fatalf("WriteOutput() error = %v", err)
	}
	if !strings.Contains(buf.String(), render.EmptyTable) {
		t.Errorf("empty output = %q", buf.String())
	}
}

func TestWriteOutput_UnknownFormat(t *testing.T) {
	if err := WriteOutput(&bytes.Buffer{}, sampleResult(), OutputFormat("xml")); err == nil {
		t.Error("WriteOutput() with unknown format should fail")
	}
}

func TestLuckText(t *testing.T) {
	tests := []struct {
		name         string
		errors, runs float64
		wantLeft     int
		wantRight    int
	}{
		{"empty", 0, 0, 0, 0},
		{"half and half", 0.75, 3.75, 4, 4},
		{"clamped", 3, 20, luckHalfWidth, luckHalfWidth},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bar := luckText(tt.errors, tt.runs)
			parts := strings.Split(bar, "│")
			if len(parts) != 2 {
				t.Fatalf("bar %q has no divider", bar)
			}
			if got := strings.Count(parts[0], "█"); got != tt.wantLeft {
				t.Errorf("left cells = %d, want %d", got, tt.wantLeft)
			}
			if got := strings.Count(parts[1], "█"); got != tt.wantRight {
				t.Errorf("right cells = %d, want %d", got, tt.wantRight)
			}
		})
	}
}

func TestDecisionsText(t *testing.T) {
	got := decisionsText([]pitcher.Decision{pitcher.Win, pitcher.NoDecision, pitcher.Loss})
	if strings.Count(got, "▲") != 1 || strings.Count(got, "▼") != 1 || strings.Count(got, "·") != 1 {
		t.Errorf("decisionsText() = %q", got)
	}
}
