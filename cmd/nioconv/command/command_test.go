package command

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/oy3o/nio"
	"github.com/oy3o/nio/charset"
)

// execute runs Root with fresh flag values and returns what it wrote to stdout.
func execute(t *testing.T, stdin []byte, args ...string) ([]byte, error) {
	t.Helper()
	for _, c := range []*cobra.Command{Root, Convert, List} {
		c.Flags().VisitAll(func(f *pflag.Flag) {
			_ = f.Value.Set(f.DefValue)
			f.Changed = false
		})
	}
	var out bytes.Buffer
	Root.SetIn(bytes.NewReader(stdin))
	Root.SetOut(&out)
	Root.SetErr(&bytes.Buffer{})
	Root.SetArgs(args)
	err := Root.Execute()
	return out.Bytes(), err
}

func TestConvert(t *testing.T) {
	in := []byte{'g', 'r', 0xFC, 0xDF, 'e'}
	out, err := execute(t, in, "convert", "-f", "latin1", "-t", "UTF-16BE")
	require.NoError(t, err)
	assert.Equal(t, []byte{0, 'g', 0, 'r', 0, 0xFC, 0, 0xDF, 0, 'e'}, out)
}

func TestConvertActions(t *testing.T) {
	_, err := execute(t, []byte("a€b"), "convert", "--to", "US-ASCII")
	assert.ErrorIs(t, err, charset.ErrCharacterCoding)

	out, err := execute(t, []byte("a€b"), "convert", "--to", "US-ASCII", "--on-unmappable", "replace")
	require.NoError(t, err)
	assert.Equal(t, "a?b", string(out))

	out, err = execute(t, []byte("a€b"), "convert", "--to", "US-ASCII", "--on-unmappable", "ignore")
	require.NoError(t, err)
	assert.Equal(t, "ab", string(out))

	out, err = execute(t, []byte("a€b"), "convert", "--to", "US-ASCII", "--on-unmappable", "replace", "--replacement", "*")
	require.NoError(t, err)
	assert.Equal(t, "a*b", string(out))

	out, err = execute(t, []byte{'a', 0xFF}, "convert", "--on-malformed", "replace")
	require.NoError(t, err)
	assert.Equal(t, "a\uFFFD", string(out))

	_, err = execute(t, nil, "convert", "--on-malformed", "explode")
	assert.Error(t, err)
	_, err = execute(t, nil, "convert", "--from", "no-such-charset")
	assert.ErrorIs(t, err, charset.ErrUnsupportedCharset)
}

func TestConvertFiles(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.txt")
	b := filepath.Join(dir, "b.txt")
	dst := filepath.Join(dir, "out.txt")
	require.NoError(t, os.WriteFile(a, []byte("日本"), 0o644))
	require.NoError(t, os.WriteFile(b, []byte("語"), 0o644))

	_, err := execute(t, nil, "convert", "-t", "Shift_JIS", "-o", dst, "--chunk", "16", a, b)
	require.NoError(t, err)
	got, err := os.ReadFile(dst)
	require.NoError(t, err)
	want, err := charset.MustForName("Shift_JIS").NewEncoder().EncodeString("日本語")
	require.NoError(t, err)
	assert.Equal(t, want, got)

	_, err = execute(t, nil, "convert", filepath.Join(dir, "missing.txt"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	// A bad chunk size is caught before the output file is created.
	bad := filepath.Join(dir, "bad.txt")
	_, err = execute(t, nil, "convert", "--chunk", "4", "-o", bad, a)
	assert.ErrorIs(t, err, nio.ErrIllegalArgument)
	_, err = os.Stat(bad)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestConvertEnvironment(t *testing.T) {
	t.Setenv("NIOCONV_TO", "UTF-16LE")
	t.Setenv("NIOCONV_ON_UNMAPPABLE", "replace")
	out, err := execute(t, []byte("A"), "convert")
	require.NoError(t, err)
	assert.Equal(t, []byte{'A', 0}, out)

	// Flags win over the environment.
	out, err = execute(t, []byte("A"), "convert", "-t", "UTF-8")
	require.NoError(t, err)
	assert.Equal(t, []byte("A"), out)
}

func TestList(t *testing.T) {
	out, err := execute(t, nil, "list")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(out)), "\n")
	assert.Equal(t, charset.Names(), lines)

	out, err = execute(t, nil, "list", "--aliases")
	require.NoError(t, err)
	assert.Contains(t, string(out), "latin1")
	assert.Contains(t, string(out), "Shift_JIS")
}

func TestNewLogger(t *testing.T) {
	l, err := newLogger(true)
	require.NoError(t, err)
	assert.True(t, l.Core().Enabled(zap.DebugLevel))

	l, err = newLogger(false)
	require.NoError(t, err)
	assert.False(t, l.Core().Enabled(zap.InfoLevel))
	assert.True(t, l.Core().Enabled(zap.WarnLevel))

	_, err = execute(t, []byte("A"), "-v", "convert")
	require.NoError(t, err)
	assert.True(t, charset.Logger().Core().Enabled(zap.DebugLevel))
}
