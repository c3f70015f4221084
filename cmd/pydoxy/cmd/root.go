package cmd

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"pydoxy/internal/config"
	"pydoxy/internal/core"
	"pydoxy/internal/logging"
)

// NewRootCmd builds the pydoxy command tree reading sources from fs.
func NewRootCmd(fs afero.Fs) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "pydoxy FILE",
		Short: "Filter Python sources for Doxygen",
		Long: `pydoxy rewrites the docstrings of a Python file into Doxygen comment blocks
placed in front of their declarations and prints the result. Point Doxygen's
FILTER_PATTERNS at it for *.py files.`,
		Args:          cobra.ExactArgs(1), // Expect exactly one argument: the Python file
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, log, err := loadOptions(cmd, args[0])
			if err != nil {
				return err
			}
			store := core.NewOutputStore(fs, opts.Output, cmd.OutOrStdout())
			return core.Filter(cmd.Context(), fs, opts, store, log)
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.String("config", "", "config file (default is .pydoxy.yaml in the current or home directory)")
	flags.BoolP(config.KeyAutoBrief, "a", false, "use the docstring summary line as @brief description")
	flags.BoolP(config.KeyAutoCode, "c", false, "automatically detect code and wrap it in @code/@endcode")
	flags.StringP(config.KeyNamespace, "n", "", "specify a top-level namespace that will be used to trim paths")
	flags.IntP(config.KeyTabLength, "t", config.DefaultTabLength, "specify a tab length in spaces")
	flags.BoolP(config.KeyStripInit, "s", false, "strip the __init__ module from namespaces")
	flags.BoolP(config.KeyObjectRespect, "O", false, "keep the object base class on class declarations")
	flags.BoolP(config.KeyEqualIndent, "e", false, "make the comment indentation match the declaration")
	flags.BoolP(config.KeyKeepDecorators, "k", false, "keep decorators directly above the declaration")
	flags.BoolP(config.KeyDebug, "d", false, "write a trace of the processed declarations to stderr")
	flags.StringP(config.KeyOutput, "o", "", "write the filtered source to this file instead of stdout")

	rootCmd.AddCommand(newTUICmd(fs))
	return rootCmd
}

// loadOptions merges flags, environment and config file into the options
// for filename and builds the debug logger.
func loadOptions(cmd *cobra.Command, filename string) (*config.Options, zerolog.Logger, error) {
	cfgFile, _ := cmd.Flags().GetString("config")
	v, err := config.NewViper(cfgFile)
	if err != nil {
		return nil, zerolog.Nop(), err
	}
	if err := v.BindPFlags(cmd.Flags()); err != nil {
		return nil, zerolog.Nop(), fmt.Errorf("failed to bind flags: %w", err)
	}
	opts, err := config.Load(v, filename)
	if err != nil {
		return nil, zerolog.Nop(), err
	}
	return opts, logging.New(cmd.ErrOrStderr(), opts.Debug), nil
}

// Execute runs the root command against the OS filesystem.
// This is called by main.main(). It only needs to happen once.
func Execute() {
	rootCmd := NewRootCmd(afero.NewOsFs())
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
