package chart

import (
	"bytes"
	"errors"
	"image/png"
	"testing"

	"github.com/pfrederiksen/pitcher-luck/internal/pitcher"
)

func TestRender(t *testing.T) {
	tests := []struct {
		name string
		rows []pitcher.Record
	}{
		{
			name: "mixed records",
			rows: []pitcher.Record{
				{PitcherID: "a", Wins: 10, Losses: 4, RunSupport: 5.1},
				{PitcherID: "b", Wins: 3, Losses: 9, RunSupport: 2.9},
				{PitcherID: "c", Wins: 0, Losses: 0, RunSupport: 4.0},
			},
		},
		{
			name: "single pitcher",
			rows: []pitcher.Record{{PitcherID: "a", Wins: 1, Losses: 0, RunSupport: 3.0}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			if err := Render(&buf, tt.rows, Options{Title: "2024"}); err != nil {
				t.Fatalf("Render() error = %v", err)
			}

			img, err := png.Decode(&buf)
			if err != nil {
				t.Fatalf("output is not a PNG: %v", err)
			}
			if b := img.Bounds(); b.Dx() != DefaultWidth || b.Dy() != DefaultHeight {
				t.Errorf("image size = %dx%d, want %dx%d", b.Dx(), b.Dy(), DefaultWidth, DefaultHeight)
			}
		})
	}
}

func TestRender_NoData(t *testing.T) {
	var buf bytes.Buffer
	if err := Render(&buf, nil, Options{}); !errors.Is(err, ErrNoData) {
		t.Errorf("Render(nil) error = %v, want ErrNoData", err)
	}
	if buf.Len() != 0 {
		t.Errorf("Render(nil) wrote %d bytes", buf.Len())
	}
}

func TestBuild_SplitsByRecord(t *testing.T) {
	rows := []pitcher.Record{
		{Wins: 5, Losses: 5, RunSupport: 4},
		{Wins: 2, Losses: 6, RunSupport: 3},
		{Wins: 7, Losses: 1, RunSupport: 6},
	}

	ch, err := Build(rows, Options{Width: 400, Height: 200})
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if len(ch.Series) != 2 {
		t.Fatalf("Build() made %d series, want 2", len(ch.Series))
	}
	if got := ch.Series[0].GetName(); got != "Winning record" {
		t.Errorf("first series = %q, want Winning record", got)
	}
	if ch.Width != 400 || ch.Height != 200 {
		t.Errorf("size = %dx%d, want 400x200", ch.Width, ch.Height)
	}
}
