package filter

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/s0up4200/rezstats/paladins"
)

func sampleMatch() paladins.HistoryMatch {
	return paladins.HistoryMatch{
		MatchID:         987654321,
		QueueID:         paladins.IntString(paladins.QueueTeamDeathmatch),
		Time:            paladins.Timestamp{Time: time.Now().AddDate(0, 0, -3)},
		MapName:         "LIVE Trade District (TDM)",
		Region:          "Europe",
		Champion:        "Androxus",
		ChampionID:      2205,
		Kills:           24,
		Deaths:          10,
		Assists:         6,
		Damage:          113000,
		Healing:         2400,
		Gold:            71000,
		TaskForce:       1,
		WinStatus:       "Win",
		Team1Score:      40,
		Team2Score:      31,
		DurationSeconds: 900,
	}
}

func TestCompile(t *testing.T) {
	compiler := NewExprCompiler()

	tests := []struct {
		name        string
		expression  string
		wantErr     bool
		errContains string
	}{
		{
			name:       "valid expression",
			expression: `Kills > 10`,
			wantErr:    false,
		},
		{
			name:        "empty expression",
			expression:  "  ",
			wantErr:     true,
			errContains: "empty expression",
		},
		{
			name:       "invalid syntax",
			expression: `playedChampion("unclosed`,
			wantErr:    true,
		},
		{
			name:       "complex expression",
			expression: `Won and Kills > 10 and contains(Champion, "andro")`,
			wantErr:    false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			filter, err := compiler.Compile(tt.expression)

			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error but got none")
				}
				var cerr *CompilationError
				if !errors.As(err, &cerr) {
					t.Errorf("expected CompilationError, got %T", err)
				}
				if tt.errContains != "" && !strings.Contains(err.Error(), tt.errContains) {
					t.Errorf("error %q does not contain %q", err.Error(), tt.errContains)
				}
				return
			}

			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if filter == nil {
				t.Fatal("expected filter but got nil")
			}
			if filter.Expression() != strings.TrimSpace(tt.expression) {
				t.Errorf("Expression() = %q, want %q", filter.Expression(), tt.expression)
			}
		})
	}
}

func TestEvaluate(t *testing.T) {
	compiler := NewExprCompiler()
	match := sampleMatch()

	tests := []struct {
		name       string
		expression string
		want       bool
	}{
		{"numeric comparison", `Kills > 20 and Deaths <= 10`, true},
		{"numeric miss", `Kills > 30`, false},
		{"won flag", `Won`, true},
		{"champion contains", `contains(Champion, "andro")`, true},
		{"played champion helper", `playedChampion("Androxus")`, true},
		{"played champion miss", `playedChampion("Evie")`, false},
		{"map name is cleaned", `Map == "Trade District"`, true},
		{"on map helper", `onMap("trade district")`, true},
		{"queue id", `Queue == 469`, true},
		{"queue name", `QueueName == "Team Deathmatch"`, true},
		{"in queue alias", `inQueue("tdm")`, true},
		{"in queue miss", `inQueue("casual")`, false},
		{"in queue unknown alias", `inQueue("bogus queue")`, false},
		{"not ranked", `not ranked()`, true},
		{"not training", `not training()`, true},
		{"recent match", `Time > daysAgo(7)`, true},
		{"days since", `daysSince(Time) >= 3`, true},
		{"string helpers", `startsWith(Region, "eur") and endsWith(Region, "ope")`, true},
		{"match struct access", `Match.KillingSpree == 0`, true},
		{"score comparison", `Team1Score > Team2Score`, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			filter, err := compiler.Compile(tt.expression)
			if err != nil {
				t.Fatalf("compile: %v", err)
			}

			if got := filter.Evaluate(match); got != tt.want {
				t.Errorf("Evaluate(%q) = %v, want %v", tt.expression, got, tt.want)
			}
		})
	}
}

func TestEvaluateUndefinedVariableIsFalse(t *testing.T) {
	compiler := NewExprCompiler()

	filter, err := compiler.Compile(`SomethingUndefined == 42`)
	if err != nil {
		t.Fatalf("compile: %v", err)
	}

	if filter.Evaluate(sampleMatch()) {
		t.Error("expected undefined variable comparison to be false")
	}
}

func TestMatchesSurfacesRuntimeErrors(t *testing.T) {
	compiler := NewExprCompiler()

	filter, err := compiler.Compile(`Kills / (Deaths - Deaths) > 0`)
	if err != nil {
		t.Fatalf("compile: %v", err)
	}

	match := sampleMatch()
	_, err = filter.Matches(match)
	if err == nil {
		t.Fatal("expected evaluation error")
	}

	var everr *EvaluationError
	if !errors.As(err, &everr) {
		t.Fatalf("expected EvaluationError, got %T", err)
	}
	if everr.MatchID != match.MatchID {
		t.Errorf("MatchID = %d, want %d", everr.MatchID, match.MatchID)
	}
}

func TestApply(t *testing.T) {
	compiler := NewExprCompiler()

	filter, err := compiler.Compile(`Kills >= 10`)
	if err != nil {
		t.Fatalf("compile: %v", err)
	}

	first := sampleMatch()
	first.MatchID = 1
	first.Kills = 4

	second := sampleMatch()
	second.MatchID = 2
	second.Kills = 15

	third := sampleMatch()
	third.MatchID = 3
	third.Kills = 10

	kept, err := Apply(filter, []paladins.HistoryMatch{first, second, third})
	if err != nil {
		t.Fatalf("apply: %v", err)
	}

	if len(kept) != 2 {
		t.Fatalf("expected 2 matches, got %d", len(kept))
	}
	if kept[0].MatchID != 2 || kept[1].MatchID != 3 {
		t.Errorf("unexpected order: %d, %d", kept[0].MatchID, kept[1].MatchID)
	}
}

func TestCompilerCache(t *testing.T) {
	compiler := NewExprCompiler(WithCache(2)).(CachingCompiler)

	first, err := compiler.Compile(`Kills > 1`)
	if err != nil {
		t.Fatalf("compile: %v", err)
	}

	again, err := compiler.Compile(`Kills > 1`)
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	if first != again {
		t.Error("expected cached filter to be reused")
	}
	if compiler.Size() != 1 {
		t.Errorf("Size() = %d, want 1", compiler.Size())
	}

	if _, err := compiler.Compile(`Deaths > 1`); err != nil {
		t.Fatalf("compile: %v", err)
	}
	if _, err := compiler.Compile(`Assists > 1`); err != nil {
		t.Fatalf("compile: %v", err)
	}
	if compiler.Size() != 2 {
		t.Errorf("Size() after eviction = %d, want 2", compiler.Size())
	}

	compiler.Clear()
	if compiler.Size() != 0 {
		t.Errorf("Size() after Clear = %d, want 0", compiler.Size())
	}
}

func TestCustomFunctions(t *testing.T) {
	compiler := NewExprCompiler(WithCustomFunctions(map[string]any{
		"double": func(n int) int { return n * 2 },
	}))

	filter, err := compiler.Compile(`double(Kills) == 48`)
	if err != nil {
		t.Fatalf("compile: %v", err)
	}

	if !filter.Evaluate(sampleMatch()) {
		t.Error("expected custom function to be available")
	}
}

func TestRegistry(t *testing.T) {
	registry := NewRegistry()

	err := registry.RegisterAll(map[string]string{
		"good_games": `Kills > 20`,
		"tdm":        `inQueue("tdm")`,
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	names := registry.Names()
	if len(names) != 2 || names[0] != "good_games" || names[1] != "tdm" {
		t.Errorf("Names() = %v", names)
	}

	if _, exists := registry.Get("good_games"); !exists {
		t.Error("expected good_games to be registered")
	}

	match := sampleMatch()
	kept, err := registry.ApplyNamed("good_games", []paladins.HistoryMatch{match})
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if len(kept) != 1 {
		t.Errorf("expected 1 match, got %d", len(kept))
	}

	if _, err := registry.ApplyNamed("missing", nil); err == nil {
		t.Error("expected error for unknown filter")
	}

	registry.Unregister("tdm")
	if _, exists := registry.Get("tdm"); exists {
		t.Error("expected tdm to be unregistered")
	}
}

func TestRegisterAllIsAtomic(t *testing.T) {
	registry := NewRegistry()

	err := registry.RegisterAll(map[string]string{
		"valid":  `Kills > 0`,
		"broken": `((`,
	})
	if err == nil {
		t.Fatal("expected error for broken expression")
	}

	if len(registry.Names()) != 0 {
		t.Errorf("expected no filters registered, got %v", registry.Names())
	}
}
