package cli

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/aretw0/turing/internal/testutils"
	"github.com/aretw0/turing/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const appendOneYAML = `start: q0
empty_symbol: _
halt: qh
tape: "11"
rules:
  - q0,1,1,R,q0
  - q0,_,1,N,qh
`

const stuckYAML = `start: a
empty_symbol: _
tape: "1"
rules: ["a,_,1,N,a"]
`

const duplicateYAML = `start: a
empty_symbol: _
rules: ["a,1,1,R,a", "a,1,0,L,b"]
`

func writeMachines(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	testutils.WriteFiles(t, dir, map[string]string{
		"append-one.yaml": appendOneYAML,
		"stuck.yaml":      stuckYAML,
		"dup.yaml":        duplicateYAML,
	})
	return dir
}

func TestRun(t *testing.T) {
	dir := writeMachines(t)

	tests := []struct {
		name    string
		opts    RunOptions
		wantErr error
		want    []string
		frames  int
	}{
		{
			name:   "macro frames until halt",
			opts:   RunOptions{Source: "append-one.yaml"},
			want:   []string{"| _ | 1 | 1 | 1 | _ |", ">>> Halted in state 'qh' after 3 operations."},
			frames: 5,
		},
		{
			name:   "micro frames",
			opts:   RunOptions{Source: "append-one.yaml", Micro: true},
			want:   []string{"Read current symbol", "Going to next state"},
			frames: 26,
		},
		{
			name:   "limit",
			opts:   RunOptions{Source: "append-one.yaml", MaxSteps: 10, Micro: true},
			want:   []string{">>> Stopped after 10 micro-steps in state 'q0' (limit reached)."},
			frames: 11,
		},
		{
			name:    "step error",
			opts:    RunOptions{Source: "stuck.yaml"},
			wantErr: domain.ErrMissingRule,
			want:    []string{">>> Stuck at operation 1: no action in state 'a' for read symbol '1'"},
			frames:  1,
		},
		{
			name:    "strict rejects duplicates",
			opts:    RunOptions{Source: "dup.yaml"},
			wantErr: domain.ErrDuplicateRule,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			tt.opts.Source = filepath.Join(dir, tt.opts.Source)
			tt.opts.Dir = dir
			tt.opts.Out = &buf

			err := Run(context.Background(), tt.opts)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
			}
			for _, w := range tt.want {
				assert.Contains(t, buf.String(), w)
			}
			// Each frame is a status line, the tape and the head marker.
			lines := strings.Count(buf.String(), "\n")
			if tt.frames > 0 {
				assert.GreaterOrEqual(t, lines, 3*tt.frames)
				assert.LessOrEqual(t, lines, 3*tt.frames+1)
			}
		})
	}
}

func TestRun_Cancelled(t *testing.T) {
	dir := t.TempDir()
	testutils.WriteFiles(t, dir, map[string]string{
		"forever.yaml": "start: a\nempty_symbol: _\nrules: [\"a,_,_,R,a\"]\n",
	})

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()

	var buf bytes.Buffer
	err := Run(ctx, RunOptions{Source: filepath.Join(dir, "forever.yaml"), Interval: time.Millisecond, Out: &buf})
	require.NoError(t, err)
	assert.Contains(t, buf.String(), ">>> Interrupted at state 'a'.")
}

func TestValidate(t *testing.T) {
	dir := writeMachines(t)
	ctx := context.Background()

	var buf bytes.Buffer
	require.NoError(t, Validate(ctx, &buf, filepath.Join(dir, "append-one.yaml"), dir))
	assert.Contains(t, buf.String(), "Machine is valid! 2 rules")
	assert.NotContains(t, buf.String(), "warning")

	orphan := filepath.Join(dir, "orphan.yaml")
	testutils.WriteFiles(t, dir, map[string]string{
		"orphan.yaml": "start: a\nempty_symbol: _\nhalt: h\nrules: [\"a,_,_,N,b\", \"z,_,_,N,h\"]\n",
	})
	buf.Reset()
	require.NoError(t, Validate(ctx, &buf, orphan, dir))
	assert.Contains(t, buf.String(), "warning: state 'z': unreachable from the start state")
	assert.Contains(t, buf.String(), "warning: state 'b': reachable but has no rules")
	assert.Contains(t, buf.String(), "warning: state 'h': halt state is never reached")

	buf.Reset()
	err := Validate(ctx, &buf, filepath.Join(dir, "dup.yaml"), dir)
	require.ErrorIs(t, err, ErrInvalidMachine)
	assert.Contains(t, buf.String(), "duplicate rule")

	err = Validate(ctx, &buf, "", dir)
	assert.Error(t, err)
}

func TestGraph(t *testing.T) {
	dir := writeMachines(t)
	ctx := context.Background()

	var buf bytes.Buffer
	require.NoError(t, Graph(ctx, &buf, filepath.Join(dir, "append-one.yaml"), dir, "mermaid", false))
	assert.True(t, strings.HasPrefix(buf.String(), "graph LR"))

	err := Graph(ctx, io.Discard, filepath.Join(dir, "dup.yaml"), dir, "dot", false)
	assert.ErrorIs(t, err, domain.ErrDuplicateRule)

	buf.Reset()
	require.NoError(t, Graph(ctx, &buf, filepath.Join(dir, "dup.yaml"), dir, "dot", true))
	assert.Contains(t, buf.String(), `"a" -> "b"`)
}

func TestRules(t *testing.T) {
	dir := writeMachines(t)

	var buf bytes.Buffer
	require.NoError(t, Rules(context.Background(), &buf, filepath.Join(dir, "append-one.yaml"), dir))
	assert.Contains(t, buf.String(), "|  | q0 | 1 | 1 | R | q0 |")
	assert.Contains(t, buf.String(), "|  | qh | | | | halt |")
}

func TestLibrary(t *testing.T) {
	ctx := context.Background()
	dir := writeMachines(t)
	lib, _ := testutils.SetupTestRepo(t)

	require.NoError(t, Save(ctx, filepath.Join(dir, "append-one.yaml"), lib, "append-one"))
	err := Save(ctx, filepath.Join(dir, "dup.yaml"), lib, "dup")
	assert.ErrorIs(t, err, domain.ErrDuplicateRule)

	var buf bytes.Buffer
	require.NoError(t, ListLibrary(ctx, &buf, lib))
	assert.Contains(t, buf.String(), "NAME")
	assert.Contains(t, buf.String(), "append-one")
	assert.NotContains(t, buf.String(), "dup")

	cfg, err := Resolve(ctx, "append-one", lib)
	require.NoError(t, err)
	assert.Equal(t, domain.State("q0"), cfg.Start)
	assert.Equal(t, []domain.Symbol{"1", "1"}, cfg.Tape)

	_, err = Resolve(ctx, "missing", lib)
	assert.ErrorIs(t, err, domain.ErrMachineNotFound)
}

func TestNewService(t *testing.T) {
	t.Run("memory with metrics", func(t *testing.T) {
		svc, err := NewService(ServiceOptions{Metrics: true})
		require.NoError(t, err)
		defer svc.Close()

		_, err = svc.Manager.Create(context.Background(), "m1", domain.Config{
			Start: "a", EmptySymbol: "_", Halt: []domain.State{"a"},
		}, true)
		require.NoError(t, err)

		rec := httptest.NewRecorder()
		svc.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("file", func(t *testing.T) {
		dir := t.TempDir()
		svc, err := NewService(ServiceOptions{SessionsDir: dir})
		require.NoError(t, err)

		_, err = svc.Manager.Create(context.Background(), "m1", domain.Config{Start: "a", EmptySymbol: "_"}, false)
		require.NoError(t, err)
		assert.FileExists(t, filepath.Join(dir, "m1.json"))
	})

	t.Run("redis", func(t *testing.T) {
		mr := miniredis.RunT(t)
		svc, err := NewService(ServiceOptions{RedisAddr: mr.Addr()})
		require.NoError(t, err)
		defer svc.Close()

		_, err = svc.Manager.Create(context.Background(), "m1", domain.Config{Start: "a", EmptySymbol: "_"}, false)
		require.NoError(t, err)
		ids, err := svc.Manager.List(context.Background())
		require.NoError(t, err)
		assert.Equal(t, []string{"m1"}, ids)

		rec := httptest.NewRecorder()
		svc.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}
