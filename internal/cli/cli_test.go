package cli

import (
	"bytes"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/blockfold/internal/consolidate"
)

func TestParse(t *testing.T) {
	testCases := []struct {
		name     string
		args     []string
		wantPath string
		wantExit bool
		wantCode int
		check    func(t *testing.T, out string)
	}{
		{name: "positional path", args: []string{"plans/settings.hcl"}, wantPath: "plans/settings.hcl"},
		{name: "plan flag wins", args: []string{"-plan", "a.hcl"}, wantPath: "a.hcl"},
		{name: "shorthand", args: []string{"-p", "b.yaml"}, wantPath: "b.yaml"},
		{
			name:     "no path prints usage",
			args:     nil,
			wantExit: true,
			check: func(t *testing.T, out string) {
				assert.Contains(t, out, "Usage:")
				assert.Contains(t, out, "PLAN_PATH")
			},
		},
		{name: "help", args: []string{"-h"}, wantExit: true},
		{name: "unknown flag", args: []string{"-nope"}, wantCode: ExitUsage},
		{name: "bad log format", args: []string{"-log-format", "xml", "a.hcl"}, wantCode: ExitUsage},
		{name: "bad log level", args: []string{"-log-level", "trace", "a.hcl"}, wantCode: ExitUsage},
		{name: "dry-run with check", args: []string{"-dry-run", "-check", "a.hcl"}, wantCode: ExitUsage},
		{name: "two paths", args: []string{"a.hcl", "b.hcl"}, wantCode: ExitUsage},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var out bytes.Buffer
			cfg, exit, err := Parse(tc.args, &out)

			if tc.wantCode != 0 {
				var exitErr *ExitError
				require.ErrorAs(t, err, &exitErr)
				assert.Equal(t, tc.wantCode, exitErr.Code)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.wantExit, exit)
			if tc.wantExit {
				assert.Nil(t, cfg)
			} else {
				require.NotNil(t, cfg)
				assert.Equal(t, tc.wantPath, cfg.PlanPath)
			}
			if tc.check != nil {
				tc.check(t, out.String())
			}
		})
	}
}

func TestParse_ModeFlags(t *testing.T) {
	cfg, exit, err := Parse([]string{"-dry-run", "-strict", "-backup", "-log-format", "JSON", "-log-level", "DEBUG", "a.hcl"}, &bytes.Buffer{})
	require.NoError(t, err)
	require.False(t, exit)

	assert.True(t, cfg.DryRun)
	assert.False(t, cfg.Check)
	assert.True(t, cfg.Strict)
	assert.True(t, cfg.Backup)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestExitCode(t *testing.T) {
	consistency := &consolidate.ConsistencyWarning{Path: "x", Marker: "<script>", Expected: 2, Got: 3}
	boundary := &consolidate.BoundaryError{Path: "x"}

	assert.Equal(t, ExitOK, ExitCode(nil))
	assert.Equal(t, ExitUsage, ExitCode(&ExitError{Code: ExitUsage}))
	assert.Equal(t, ExitInconsistent, ExitCode(consistency))
	assert.Equal(t, ExitInconsistent, ExitCode(fmt.Errorf("wrapped: %w", consistency)))
	assert.Equal(t, ExitFailure, ExitCode(boundary))
	assert.Equal(t, ExitFailure, ExitCode(errors.New("boom")))
}
