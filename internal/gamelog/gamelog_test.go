package gamelog

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const header = "Date,VT,HT,VT Starting Pitcher Name,VT Starting Pitcher ID,HT Starting Pitcher Name,HT Starting Pitcher ID,Winning Pitcher Name,Winning Pitcher ID,Losing Pitcher Name,Losing Pitcher ID,VT Score,HT Score,VT Errors,HT Errors\n"

func TestParse(t *testing.T) {
	input := header +
		"20240328,NYA,HOU,Nestor Cortes,cortn001,Framber Valdez,valdf001,Clay Holmes,holmc001,Bryan Abreu,abreb002,5,4,0,1\n" +
		"20240329,NYA,HOU,Marcus Stroman,strom001,,,Marcus Stroman,strom001,Jose Urquidy,urquj001,7,1,,2\n"

	games, err := Parse(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if len(games) != 2 {
		t.Fatalf("Parse() returned %d games, want 2", len(games))
	}

	g := games[0]
	if g.Date != 20240328 || g.Year() != 2024 {
		t.Errorf("Date = %d, Year() = %d", g.Date, g.Year())
	}
	if g.Visitor.Team != "NYA" || g.Home.Team != "HOU" {
		t.Errorf("teams = %s @ %s", g.Visitor.Team, g.Home.Team)
	}
	if g.Home.Runs != 4 || g.Home.Errors != 1 {
		t.Errorf("home runs/errors = %v/%v, want 4/1", g.Home.Runs, g.Home.Errors)
	}

	if !math.IsNaN(games[1].Visitor.Errors) {
		t.Errorf("empty errors cell = %v, want NaN", games[1].Visitor.Errors)
	}
}

func TestParse_ColumnOrderAndBOM(t *testing.T) {
	input := "\ufeffHT Errors,VT Errors,HT Score,VT Score,Losing Pitcher ID,Winning Pitcher ID,HT Starting Pitcher ID,HT Starting Pitcher Name,VT Starting Pitcher ID,VT Starting Pitcher Name,HT,VT,Date,Extra\n" +
		"2,0,3,6,hometeam1,visit001,home0001,Home Guy,visit001,Visit Guy,BOS,TBA,20230615,x\n"

	games, err := Parse(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if games[0].Visitor.Team != "TBA" || games[0].Home.Errors != 2 {
		t.Errorf("unexpected game %+v", games[0])
	}
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr string
	}{
		{
			name:    "empty file",
			input:   "",
			wantErr: "empty game log",
		},
		{
			name:    "missing column",
			input:   "Date,VT,HT\n20240401,NYA,BOS\n",
			wantErr: "missing required column",
		},
		{
			name:    "bad date",
			input:   header + "April,NYA,HOU,A,a001,B,b001,,a001,,b001,1,0,0,0\n",
			wantErr: `line 2: column "Date"`,
		},
		{
			name:    "bad score",
			input:   header + "20240401,NYA,HOU,A,a001,B,b001,,a001,,b001,one,0,0,0\n",
			wantErr: `column "VT Score"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(strings.NewReader(tt.input))
			if err == nil {
				t.Fatal("Parse() expected error, got nil")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Parse() error = %q, want to contain %q", err, tt.wantErr)
			}
		})
	}
}

func TestParse_MissingColumnIsSentinel(t *testing.T) {
	_, err := Parse(strings.NewReader("Date\n"))
	if !errors.Is(err, ErrMissingColumn) {
		t.Errorf("Parse() error = %v, want ErrMissingColumn", err)
	}
}

func TestGame_Starts(t *testing.T) {
	g := Game{
		Date:             20240401,
		Visitor:          Side{Team: "NYA", StarterName: "Gerrit Cole", StarterID: "coleg001", Runs: 2, Errors: 1},
		Home:             Side{Team: "BOS", StarterName: "Brayan Bello", StarterID: "bellb001", Runs: 3, Errors: 0},
		WinningPitcherID: "relief01",
		LosingPitcherID:  "coleg001",
	}

	starts := g.Starts()
	if len(starts) != 2 {
		t.Fatalf("Starts() returned %d, want 2", len(starts))
	}

	visitor, home := starts[0], starts[1]
	if visitor.Won || !visitor.Lost {
		t.Errorf("visitor decision won=%v lost=%v, want loss", visitor.Won, visitor.Lost)
	}
	if home.Won || home.Lost {
		t.Errorf("home decision won=%v lost=%v, want no decision", home.Won, home.Lost)
	}
	if home.Errors != 0 || visitor.Errors != 1 {
		t.Errorf("errors should come from each starter's own club: home=%v visitor=%v", home.Errors, visitor.Errors)
	}
}

func TestGame_StartsSkipsMissingStarter(t *testing.T) {
	g := Game{
		Visitor: Side{Team: "NYA"},
		Home:    Side{Team: "BOS", StarterName: "Brayan Bello", StarterID: "bellb001"},
	}

	starts := g.Starts()
	if len(starts) != 1 || starts[0].Team != "BOS" {
		t.Errorf("Starts() = %+v, want only the home start", starts)
	}
}

func TestReadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "games.csv")
	content := header + "20240401,NYA,HOU,A,a001,B,b001,,a001,,b001,1,0,0,0\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	games, err := ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if len(games) != 1 {
		t.Errorf("ReadFile() returned %d games, want 1", len(games))
	}

	if _, err := ReadFile(filepath.Join(t.TempDir(), "absent.csv")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("ReadFile(absent) error = %v, want ErrNotExist", err)
	}
}
