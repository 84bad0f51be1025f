package emulator

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/retroenv/retrogolib/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mnafees/chip8vm/internal"
	"github.com/mnafees/chip8vm/internal/cli"
	"github.com/mnafees/chip8vm/internal/config"
	"github.com/mnafees/chip8vm/internal/debug"
)

func writeFile(t *testing.T, name string, data []byte) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func TestNew(t *testing.T) {
	assert := assert.New(t)

	rom := writeFile(t, "test.ch8", []byte{0x60, 0x07})
	cfg := writeFile(t, "test.conf", []byte("[display]\nscale = 4\n[log]\nlevel = \"warn\"\n"))

	var out bytes.Buffer
	opts := cli.Options{
		Display:  cli.Display{Config: cfg},
		Debugger: cli.Debugger{Break: "pc == 0x202"},
		ROM:      rom,
	}
	emu, err := New(opts, &out)
	require.NoError(t, err)

	assert.Equal(4, emu.Display.Scale)
	assert.Equal(config.DefaultForeground, emu.Display.Foreground)
	assert.Equal(log.WarnLevel, emu.Logger.Level())
	assert.False(emu.Debug.Empty())

	require.NoError(t, emu.VM.Cycle())
	v0, err := emu.VM.Register(0)
	require.NoError(t, err)
	assert.Equal(uint8(7), v0)
}

func TestNew_Overrides(t *testing.T) {
	rom := writeFile(t, "test.ch8", []byte{0x00, 0xE0})

	opts := cli.Options{
		Logging: cli.Logging{Trace: true},
		Display: cli.Display{Scale: 3},
		ROM:     rom,
	}
	emu, err := New(opts, &bytes.Buffer{})
	require.NoError(t, err)

	assert.Equal(t, 3, emu.Display.Scale)
	assert.Equal(t, log.TraceLevel, emu.Logger.Level())
	assert.True(t, emu.Debug.Empty())
}

func TestNew_Errors(t *testing.T) {
	rom := writeFile(t, "test.ch8", []byte{0x00, 0xE0})

	tests := []struct {
		name string
		opts cli.Options
	}{
		{"missing rom", cli.Options{ROM: filepath.Join(t.TempDir(), "missing.ch8")}},
		{"missing config", cli.Options{Display: cli.Display{Config: "missing.conf"}, ROM: rom}},
		{"bad breakpoint", cli.Options{Debugger: cli.Debugger{Break: "pc =="}, ROM: rom}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.opts, &bytes.Buffer{})
			assert.Error(t, err)
		})
	}
}

func TestReport(t *testing.T) {
	emu := &Emulator{Logger: log.NewTestLogger(t)}

	assert.Equal(t, 0, emu.Report(nil))
	assert.Equal(t, 0, emu.Report(fmt.Errorf("running: %w", context.Canceled)))
	assert.Equal(t, 0, emu.Report(&debug.Hit{Expr: "pc == 0x200", State: internal.State{PC: 0x200}}))
	assert.Equal(t, 1, emu.Report(internal.ErrUnknownOpcode))
	assert.Equal(t, 1, emu.Report(errors.New("boom")))
}

func TestPrintBanner(t *testing.T) {
	var out bytes.Buffer
	logger := config.NewLogger(log.InfoLevel, false, false, &out)

	PrintBanner(logger, false, "chip8vm", "1.0.0", "0123456789abcdef", "unknown")
	assert.Contains(t, out.String(), "chip8vm")
	assert.Contains(t, out.String(), "commit: 0123456")
	assert.NotContains(t, out.String(), "89abcdef")

	out.Reset()
	PrintBanner(logger, true, "chip8vm", "1.0.0", "", "")
	assert.Empty(t, out.String())
}

func TestHandleFlagError(t *testing.T) {
	logger := log.NewTestLogger(t)

	assert.Equal(t, 0, HandleFlagError(cli.ErrHelpRequested, logger))

	_, err := cli.ParseFlags("chip8vm", nil)
	assert.Equal(t, 1, HandleFlagError(err, logger))
	assert.Equal(t, 1, HandleFlagError(errors.New("bad flag"), logger))
}
