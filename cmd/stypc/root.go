package main

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// rootFlags holds global flag values accessible to all subcommands.
type rootFlags struct {
	configFile string
	traceLevel string
}

// settings is filled before any subcommand runs.
type settings struct {
	conf *viper.Viper
}

// NewRootCmd creates the top-level "stypc" command with global flags and
// all subcommands registered.
func NewRootCmd() *cobra.Command {
	var flags rootFlags
	s := &settings{}
	root := &cobra.Command{
		Use:   "stypc",
		Short: "Render style rule trees to CSS",
		Long: "stypc reads a tree of style rules from a YAML file and renders it\n" +
			"to a CSS style sheet or to the <head> of an HTML document.",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			v, err := loadConfig(flags.configFile)
			if err != nil {
				return err
			}
			if flags.traceLevel != "" {
				v.Set(cfgKeyTraceLevel, flags.traceLevel)
			}
			setupTracing(v.GetString(cfgKeyTraceLevel))
			s.conf = v
			return nil
		},
	}
	root.PersistentFlags().StringVar(&flags.configFile, "config", "", "config file (default: ./stypc.yaml)")
	root.PersistentFlags().StringVar(&flags.traceLevel, "trace", "", "trace level: Error, Info or Debug")
	root.AddCommand(newRenderCmd(s))
	root.AddCommand(newVersionCmd())
	return root
}
