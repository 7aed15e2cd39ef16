package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"

	"github.com/user/metric_plotter_go/internal/config"
	"github.com/user/metric_plotter_go/internal/parser"
)

func TestExitCodeForError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, ExitSuccess},
		{"config", fmt.Errorf("%w: width must be positive", config.ErrInvalidConfig), ExitConfigError},
		{"schema", &parser.SchemaError{Missing: []string{"MSE"}}, ExitSchemaError},
		{"parse", fmt.Errorf("load: %w", &parser.ParseError{Row: 1, Line: 2, Column: "RMSE", Value: "x", Err: errors.New("bad")}), ExitParseError},
		{"path", &fs.PathError{Op: "open", Path: "missing.csv", Err: fs.ErrNotExist}, ExitIOError},
		{"usage", newUsageError(errors.New("unknown flag: --nope")), ExitUsageError},
		{"wrapped usage", fmt.Errorf("run: %w", newUsageError(errors.New("accepts 1 arg(s), received 0"))), ExitUsageError},
		{"usage-like text", errors.New("invalid argument in grid header"), ExitGeneralError},
		{"usage-like wrapped parse", fmt.Errorf("required flag: %w", &parser.ParseError{Row: 1, Column: "MAE", Err: errors.New("invalid argument")}), ExitParseError},
		{"other", errors.New("boom"), ExitGeneralError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExitCodeForError(tt.err))
		})
	}
}

func TestUsageArgs(t *testing.T) {
	cmd := NewRootCmd()
	err := usageArgs(cobra.ExactArgs(1))(cmd, nil)
	assert.ErrorIs(t, err, ErrUsage)
	assert.Contains(t, err.Error(), "accepts 1 arg(s)")

	assert.NoError(t, usageArgs(cobra.ExactArgs(1))(cmd, []string{"a"}))
	assert.Nil(t, newUsageError(nil))
}
