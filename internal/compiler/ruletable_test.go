package compiler_test

import (
	"errors"
	"testing"

	"github.com/aretw0/turing/internal/compiler"
	"github.com/aretw0/turing/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rule(s string) domain.Rule {
	r, err := domain.ParseRule(s)
	if err != nil {
		panic(err)
	}
	return r
}

func appendOne() domain.Config {
	return domain.Config{
		Start:       "q0",
		EmptySymbol: "_",
		Halt:        []domain.State{"qh"},
		Tape:        []domain.Symbol{"1", "1"},
		Rules: []domain.Rule{
			rule("q0,1,1,R,q0"),
			rule("q0,_,1,N,qh"),
		},
	}
}

func TestBuild_Lookup(t *testing.T) {
	cfg := appendOne()
	table, err := compiler.Compile(cfg, true)
	require.NoError(t, err)

	tr, ok := table.Get("q0", "_")
	require.True(t, ok)
	assert.Equal(t, domain.Transition{ToState: "qh", ToSymbol: "1", Action: domain.Stay}, tr)

	_, ok = table.Get("q0", "0")
	assert.False(t, ok)
	_, ok = table.Get("qh", "1")
	assert.False(t, ok)

	assert.True(t, table.HasState("q0"))
	assert.False(t, table.HasState("qh"), "halt state has no outgoing rules")
	assert.True(t, table.Strict())

	assert.Equal(t, []domain.State{"q0", "qh"}, table.States())
	assert.Equal(t, []domain.Symbol{"_", "1"}, table.Symbols())
	assert.Equal(t, cfg.Rules, table.Rules())

	row, ok := table.Row("q0")
	require.True(t, ok)
	assert.Len(t, row, 2)
	delete(row, "1")
	_, ok = table.Get("q0", "1")
	assert.True(t, ok, "Row returns a copy")
}

func TestBuild_StrictViolations(t *testing.T) {
	declared := []compiler.Option{
		compiler.WithStates("q0", "q1"),
		compiler.WithSymbols("0", "1", "_"),
	}

	tests := []struct {
		name  string
		rules []string
		opts  []compiler.Option
		want  error
		field string
		index int
	}{
		{"Empty From State", []string{",1,1,R,q0"}, nil, domain.ErrEmptyField, "from_state", 0},
		{"Empty Action", []string{"q0,1,1,,q0"}, nil, domain.ErrEmptyField, "action", 0},
		{"Truncated Rule", []string{"q0,1,1"}, nil, domain.ErrEmptyField, "action", 0},
		{"Undeclared From State", []string{"q9,1,1,R,q0"}, declared, domain.ErrInvalidState, "from_state", 0},
		{"Undeclared To State", []string{"q0,1,1,R,q9"}, declared, domain.ErrInvalidState, "to_state", 0},
		{"Long Symbol", []string{"q0,11,1,R,q0"}, nil, domain.ErrInvalidSymbol, "from_symbol", 0},
		{"Undeclared Symbol", []string{"q0,1,x,R,q0"}, declared, domain.ErrInvalidSymbol, "to_symbol", 0},
		{"Bad Action", []string{"q0,1,1,X,q0"}, nil, domain.ErrInvalidHeadAction, "action", 0},
		{"Duplicate", []string{"q0,1,1,R,q0", "q0,0,0,R,q0", "q0,1,0,L,q1"}, nil, domain.ErrDuplicateRule, "from_symbol", 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rules := make([]domain.Rule, len(tt.rules))
			for i, s := range tt.rules {
				rules[i] = rule(s)
			}

			_, err := compiler.Build(rules, true, tt.opts...)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.want)

			var cerr *domain.ConstructionError
			require.True(t, errors.As(err, &cerr))
			assert.Equal(t, tt.field, cerr.Field)
			assert.Equal(t, tt.index, cerr.Index)
			require.NotNil(t, cerr.Rule)

			// The same input never fails in permissive mode.
			table, err := compiler.Build(rules, false, tt.opts...)
			require.NoError(t, err)
			assert.False(t, table.Strict())
		})
	}
}

func TestBuild_PermissiveLastWins(t *testing.T) {
	rules := []domain.Rule{
		rule("q0,1,1,R,q0"),
		rule("q0,1,0,L,q1"),
	}

	_, err := compiler.Build(rules, true)
	assert.ErrorIs(t, err, domain.ErrDuplicateRule)

	table, err := compiler.Build(rules, false)
	require.NoError(t, err)

	tr, ok := table.Get("q0", "1")
	require.True(t, ok)
	assert.Equal(t, domain.State("q1"), tr.ToState)
	assert.Equal(t, domain.Left, tr.Action)
	assert.Len(t, table.Rules(), 2, "the rule list keeps both entries")
}

func TestBuild_PermissiveInference(t *testing.T) {
	rules := []domain.Rule{
		rule("a,x,y,R,b"),
		rule(",z,,,c"),
		rule("b,y,y,??,a"),
	}

	table, err := compiler.Build(rules, false,
		compiler.WithStart("s"),
		compiler.WithHalt("h"),
		compiler.WithEmptySymbol("_"),
	)
	require.NoError(t, err)

	assert.Equal(t, []domain.State{"s", "a", "b", "c", "h"}, table.States())
	assert.Equal(t, []domain.Symbol{"_", "x", "y", "z"}, table.Symbols())

	tr, ok := table.Get("b", "y")
	require.True(t, ok)
	assert.Equal(t, domain.HeadAction("??"), tr.Action, "unknown actions pass through")
}

func TestCompile_DeclaredSets(t *testing.T) {
	cfg := appendOne()
	cfg.States = []domain.State{"q0", "unused"}
	cfg.Symbols = []domain.Symbol{"1"}

	table, err := compiler.Compile(cfg, false)
	require.NoError(t, err)
	assert.Equal(t, []domain.State{"q0", "qh"}, table.States(), "permissive tables infer states")
	assert.Equal(t, []domain.Symbol{"_", "1"}, table.Symbols(), "permissive tables infer symbols")

	cfg.States = []domain.State{"qh", "q0", "unused"}
	cfg.Symbols = []domain.Symbol{"1", "_", "0"}

	table, err = compiler.Compile(cfg, true)
	require.NoError(t, err)
	assert.Equal(t, []domain.State{"qh", "q0", "unused"}, table.States())
	assert.Equal(t, []domain.Symbol{"1", "_", "0"}, table.Symbols())
}

func TestCheck_Config(t *testing.T) {
	t.Run("Valid", func(t *testing.T) {
		assert.Empty(t, compiler.Check(appendOne()))
	})

	t.Run("Collects Every Failure", func(t *testing.T) {
		cfg := appendOne()
		cfg.Start = ""
		cfg.EmptySymbol = "__"
		cfg.Head = 5
		cfg.Rules = append(cfg.Rules, rule("q0,1,0,L,q0"), rule("q0,0,0,X,q0"))

		errs := compiler.Check(cfg)
		require.Len(t, errs, 5)
		assert.ErrorIs(t, errs[0], domain.ErrEmptyField)
		assert.ErrorIs(t, errs[1], domain.ErrInvalidSymbol)
		assert.ErrorIs(t, errs[2], domain.ErrInvalidHeadIndex)
		assert.ErrorIs(t, errs[3], domain.ErrDuplicateRule)
		assert.ErrorIs(t, errs[4], domain.ErrInvalidHeadAction)

		_, err := compiler.Compile(cfg, true)
		assert.ErrorIs(t, err, domain.ErrEmptyField, "Compile reports the first failure")

		_, err = compiler.Compile(cfg, false)
		assert.NoError(t, err)
	})

	t.Run("Declared Sets", func(t *testing.T) {
		cfg := appendOne()
		cfg.States = []domain.State{"q0", "qh"}
		cfg.Symbols = []domain.Symbol{"1", "_"}
		assert.Empty(t, compiler.Check(cfg))

		cfg.Halt = []domain.State{"qx"}
		cfg.Tape = []domain.Symbol{"1", "0"}
		errs := compiler.Check(cfg)
		require.Len(t, errs, 2)
		assert.ErrorIs(t, errs[0], domain.ErrInvalidState)
		assert.ErrorIs(t, errs[1], domain.ErrInvalidSymbol)
	})
}
