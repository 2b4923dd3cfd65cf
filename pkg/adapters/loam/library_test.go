package loam_test

import (
	"context"
	"testing"

	"github.com/aretw0/turing/internal/testutils"
	"github.com/aretw0/turing/pkg/adapters/loam"
	"github.com/aretw0/turing/pkg/domain"
	"github.com/aretw0/turing/pkg/ports/tests"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var appendOne = domain.Config{
	Start:       "q0",
	EmptySymbol: "_",
	Halt:        []domain.State{"qh"},
	Tape:        []domain.Symbol{"1", "1"},
	Rules: []domain.Rule{
		{FromState: "q0", FromSymbol: "1", ToSymbol: "1", Action: domain.Right, ToState: "q0"},
		{FromState: "q0", FromSymbol: "_", ToSymbol: "1", Action: domain.Stay, ToState: "qh"},
	},
}

var seed = map[string]string{
	"append-one.md": `---
start: q0
empty_symbol: _
halt: qh
tape: "11"
rules:
  - q0,1,1,R,q0
  - q0,_,1,N,qh
---
Scans right over ones and appends another.`,
	"flip.json": `{
    "description": "Flips one bit.",
    "start": "a",
    "empty_symbol": "_",
    "halt": ["h"],
    "tape": ["0"],
    "rules": [["a", "0", "1", "N", "h"]]
}`,
}

var flip = domain.Config{
	Start:       "a",
	EmptySymbol: "_",
	Halt:        []domain.State{"h"},
	Tape:        []domain.Symbol{"0"},
	Rules:       []domain.Rule{{FromState: "a", FromSymbol: "0", ToSymbol: "1", Action: domain.Stay, ToState: "h"}},
}

func TestLibrary_Contract(t *testing.T) {
	dir, repo := testutils.SetupTestRepo(t)
	testutils.WriteFiles(t, dir, seed)

	tests.MachineLibraryContractTest(t, loam.New(repo), map[string]domain.Config{
		"append-one": appendOne,
		"flip":       flip,
	})
}

func TestLibrary_Description(t *testing.T) {
	dir, repo := testutils.SetupTestRepo(t)
	testutils.WriteFiles(t, dir, seed)
	lib := loam.New(repo)
	ctx := context.Background()

	m, err := lib.Get(ctx, "append-one")
	require.NoError(t, err)
	assert.Equal(t, "Scans right over ones and appends another.", m.Description)

	m, err = lib.Get(ctx, "flip")
	require.NoError(t, err)
	assert.Equal(t, "Flips one bit.", m.Description)
}

func TestLibrary_DetectsCollisions(t *testing.T) {
	dir, repo := testutils.SetupTestRepo(t)
	testutils.WriteFiles(t, dir, map[string]string{
		"foo.md":   "---\nstart: a\nempty_symbol: _\nrules: []\n---\n",
		"foo.json": `{"start": "a", "empty_symbol": "_", "rules": []}`,
	})

	_, err := loam.New(repo).List(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "collision detected")
}

func TestLibrary_InvalidDocument(t *testing.T) {
	dir, repo := testutils.SetupTestRepo(t)
	testutils.WriteFiles(t, dir, map[string]string{
		"broken.md": "---\nstart: a\n---\nno rules here",
	})

	_, err := loam.New(repo).Get(context.Background(), "broken")
	assert.ErrorIs(t, err, domain.ErrMissingKey)
}

func TestLibrary_SaveRoundTrip(t *testing.T) {
	_, repo := testutils.SetupTestRepo(t)
	lib := loam.New(repo)
	ctx := context.Background()

	require.NoError(t, lib.Save(ctx, &domain.Machine{Name: "saved", Description: "Round trip.", Config: appendOne}))

	m, err := lib.Get(ctx, "saved")
	require.NoError(t, err)
	assert.Equal(t, appendOne, m.Config)
	assert.Equal(t, "Round trip.", m.Description)
}
