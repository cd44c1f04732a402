package command

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/oy3o/nio"
	"github.com/oy3o/nio/charset"
)

// Convert streams files, or standard input, from one charset to another.
var Convert = &cobra.Command{
	Use:   "convert [--from CHARSET] [--to CHARSET] [--output FILE] [FILE ...]",
	Short: "Converts files, or standard input, from one character set to another.",
	Long: "Converts each FILE in turn and writes the concatenated result. A FILE of `-` or no FILE at all reads standard input.\n\n" +
		"Malformed input and characters the target charset cannot represent stop the conversion unless\n" +
		"--on-malformed or --on-unmappable choose `ignore` or `replace`.",
	DisableFlagsInUseLine: true,
	RunE:                  commandConvert,
}

func init() {
	registerConvertFlags(Convert.Flags())
}

func registerConvertFlags(fs *pflag.FlagSet) {
	fs.StringP("from", "f", "UTF-8", "Charset of the input.")
	fs.StringP("to", "t", "UTF-8", "Charset of the output.")
	fs.StringP("output", "o", "-", "File to write, `-` for standard output.")
	fs.String("on-malformed", charset.Report.String(), "Action for malformed input: report, ignore or replace.")
	fs.String("on-unmappable", charset.Report.String(), "Action for unmappable characters: report, ignore or replace.")
	fs.String("replacement", "", "Text written for bad input under replace, instead of the target charset's default.")
	fs.Int("chunk", charset.DefaultChunkSize, "Stream buffer size.")
}

// convertOptions is the resolved form of the convert flags.
type convertOptions struct {
	from, to     *charset.Charset
	onMalformed  charset.CodingErrorAction
	onUnmappable charset.CodingErrorAction
	replacement  string
	chunk        int
}

func loadConvertOptions() (*convertOptions, error) {
	var opts convertOptions
	var err error
	if opts.from, err = charset.ForName(cfg.GetString("from")); err != nil {
		return nil, err
	}
	if opts.to, err = charset.ForName(cfg.GetString("to")); err != nil {
		return nil, err
	}
	if opts.onMalformed, err = charset.ParseAction(cfg.GetString("on-malformed")); err != nil {
		return nil, err
	}
	if opts.onUnmappable, err = charset.ParseAction(cfg.GetString("on-unmappable")); err != nil {
		return nil, err
	}
	opts.replacement = cfg.GetString("replacement")
	if opts.chunk = cfg.GetInt("chunk"); opts.chunk < charset.MinChunkSize {
		return nil, fmt.Errorf("%w: chunk size %d below %d", nio.ErrIllegalArgument, opts.chunk, charset.MinChunkSize)
	}
	return &opts, nil
}

func (o *convertOptions) newDecoder() *charset.Decoder {
	return o.from.NewDecoder().
		OnMalformedInput(o.onMalformed).
		OnUnmappableCharacter(o.onUnmappable)
}

func (o *convertOptions) newEncoder() (*charset.Encoder, error) {
	enc := o.to.NewEncoder().
		OnMalformedInput(o.onMalformed).
		OnUnmappableCharacter(o.onUnmappable)
	if o.replacement != "" {
		repl, err := o.to.NewEncoder().EncodeString(o.replacement)
		if err != nil {
			return nil, fmt.Errorf("replacement %q: %w", o.replacement, err)
		}
		if err := enc.ReplaceWith(repl); err != nil {
			return nil, err
		}
	}
	return enc, nil
}

// stdStream hides the Close of standard input and output from the charset streams.
type stdStream struct {
	io.Reader
	io.Writer
}

func commandConvert(cmd *cobra.Command, args []string) (err error) {
	opts, err := loadConvertOptions()
	if err != nil {
		return err
	}
	enc, err := opts.newEncoder()
	if err != nil {
		return err
	}

	var dst io.Writer = stdStream{Writer: cmd.OutOrStdout()}
	if name := cfg.GetString("output"); name != "-" {
		f, err := os.Create(name)
		if err != nil {
			return err
		}
		dst = f
	}
	w, err := charset.NewWriterSize(dst, enc, opts.chunk)
	if err != nil {
		if c, ok := dst.(io.Closer); ok {
			_ = c.Close()
		}
		return err
	}
	defer func() {
		if cerr := w.Close(); err == nil {
			err = cerr
		}
	}()

	if len(args) == 0 {
		args = []string{"-"}
	}
	dec := opts.newDecoder()
	buf := make([]uint16, opts.chunk)
	for _, name := range args {
		n, err := convertFile(cmd, name, dec, w, buf)
		if err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
		logger.Debug("converted",
			zap.String("file", name),
			zap.String("from", opts.from.Name()),
			zap.String("to", opts.to.Name()),
			zap.Int64("chars", n))
	}
	return nil
}

func convertFile(cmd *cobra.Command, name string, dec *charset.Decoder, w *charset.Writer, buf []uint16) (int64, error) {
	var src io.Reader = stdStream{Reader: cmd.InOrStdin()}
	if name != "-" {
		f, err := os.Open(name)
		if err != nil {
			return 0, err
		}
		src = f
	}
	r, err := charset.NewReaderSize(src, dec, len(buf))
	if err != nil {
		if c, ok := src.(io.Closer); ok {
			_ = c.Close()
		}
		return 0, err
	}
	defer r.Close()
	return copyChars(w, r, buf)
}

// copyChars moves UTF-16 chars from r to w until r is exhausted. Going
// through chars rather than UTF-8 keeps unpaired surrogates for the encoder
// to judge.
func copyChars(w *charset.Writer, r *charset.Reader, buf []uint16) (int64, error) {
	var n int64
	for {
		k, err := r.ReadChars(buf)
		if k > 0 {
			if _, werr := w.WriteChars(buf[:k]); werr != nil {
				return n, werr
			}
			n += int64(k)
		}
		if errors.Is(err, io.EOF) {
			return n, nil
		}
		if err != nil {
			return n, err
		}
	}
}
