package validator

import (
	"testing"

	"github.com/aretw0/turing/pkg/domain"
	"github.com/aretw0/turing/pkg/dsl"
	"github.com/stretchr/testify/assert"
)

func TestAnalyze(t *testing.T) {
	tests := []struct {
		name string
		cfg  domain.Config
		want Report
	}{
		{
			name: "clean",
			cfg: dsl.New("q0").Halt("qh").
				On("q0", "1").Right().Go("q0").
				On("q0", "_").Write("1").Go("qh").
				Config(),
			want: Report{},
		},
		{
			name: "unreachable state",
			cfg: dsl.New("a").Halt("h").
				On("a", "_").Go("h").
				On("z", "_").Go("a").
				Config(),
			want: Report{Unreachable: []domain.State{"z"}},
		},
		{
			name: "dead end",
			cfg: dsl.New("a").Halt("h").
				On("a", "_").Go("b").
				On("a", "1").Go("h").
				Config(),
			want: Report{DeadEnds: []domain.State{"b"}},
		},
		{
			name: "unused halt",
			cfg: dsl.New("a").Halt("h", "done").
				On("a", "_").Go("h").
				Config(),
			want: Report{UnusedHalts: []domain.State{"done"}},
		},
		{
			name: "rules out of a halt state are not followed",
			cfg: dsl.New("a").Halt("h").
				On("a", "_").Go("h").
				On("h", "_").Go("x").
				Config(),
			want: Report{},
		},
		{
			name: "no rules at all",
			cfg:  dsl.New("a").Halt("h").Config(),
			want: Report{DeadEnds: []domain.State{"a"}, UnusedHalts: []domain.State{"h"}},
		},
		{
			name: "start is a halt state",
			cfg:  dsl.New("h").Halt("h").Config(),
			want: Report{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Analyze(tt.cfg)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, len(tt.want.Warnings()) == 0, got.Empty())
		})
	}
}

func TestAnalyze_SkipsIncompleteRules(t *testing.T) {
	cfg := domain.Config{
		Start: "a",
		Halt:  []domain.State{"h"},
		Rules: []domain.Rule{
			{FromState: "a", FromSymbol: "_", ToSymbol: "_", Action: domain.Stay, ToState: "h"},
			{FromState: "", FromSymbol: "_", ToSymbol: "_", Action: domain.Stay, ToState: "x"},
			{FromState: "a", FromSymbol: "1", ToSymbol: "1", Action: domain.Stay, ToState: ""},
		},
	}

	assert.True(t, Analyze(cfg).Empty())
}

func TestReport_Warnings(t *testing.T) {
	rep := Report{
		Unreachable: []domain.State{"z"},
		DeadEnds:    []domain.State{"b"},
		UnusedHalts: []domain.State{"done"},
	}

	var lines []string
	for _, w := range rep.Warnings() {
		lines = append(lines, w.String())
	}
	assert.Equal(t, []string{
		"state 'z': unreachable from the start state",
		"state 'b': reachable but has no rules",
		"state 'done': halt state is never reached",
	}, lines)
}
