package app

import (
	"github.com/spf13/cobra"
)

var Version = "1.0.0"

// Command buduje komendę cobra: --config, --verbose, start App, run, zamknięcie.
func Command(use, short string, run func(*App) error) *cobra.Command {
	var opt Options
	cmd := &cobra.Command{
		Use:           use,
		Short:         short,
		Version:       Version,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			opt.Console = cmd.OutOrStdout()
			a, err := New(opt)
			if err != nil {
				return err
			}
			defer a.Close()

			if err := run(a); err != nil {
				a.Log.Error().Err(err).Str("command", use).Msg("command failed")
				return err
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&opt.ConfigPath, "config", "c", DefaultConfigPath, "ścieżka do pliku konfiguracji (JSON)")
	cmd.Flags().BoolVarP(&opt.Verbose, "verbose", "v", false, "logi debug (mapowanie wierszy)")
	return cmd
}
