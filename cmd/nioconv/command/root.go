package command

import (
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/oy3o/nio/charset"
)

var (
	// cfg layers flags over NIOCONV_* environment variables.
	cfg    = newConfig()
	logger = zap.NewNop()

	// Root is the nioconv command.
	Root = &cobra.Command{
		Use:   "nioconv",
		Short: "nioconv converts text between character sets.",
		Long: "`nioconv` reads text in one character set and writes it in another, streaming the input in chunks.\n\n" +
			"Every flag can also be set through an environment variable named NIOCONV_<FLAG>, with dashes turned into underscores.",
		SilenceUsage:      true,
		PersistentPreRunE: preRun,
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = logger.Sync()
		},
	}
)

func newConfig() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix("NIOCONV")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	return v
}

func preRun(cmd *cobra.Command, args []string) error {
	if err := cfg.BindPFlags(cmd.Flags()); err != nil {
		return err
	}
	l, err := newLogger(cfg.GetBool("verbose"))
	if err != nil {
		return err
	}
	logger = l
	charset.SetLogger(l.Named("charset"))
	return nil
}

func newLogger(verbose bool) (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopmentConfig().Build()
	}
	c := zap.NewProductionConfig()
	c.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	c.Encoding = "console"
	return c.Build()
}

func init() {
	Root.PersistentFlags().BoolP("verbose", "v", false, "Log progress at debug level to stderr.")
	Root.AddCommand(Convert)
	Root.AddCommand(List)
}
