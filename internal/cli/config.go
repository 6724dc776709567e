package cli

import (
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Altius/stampipes/programs/nanomux/internal/apperr"
)

// loadConfig fills out from the flag defaults of cmd, the file named by
// --config, NANOMUX_* environment variables and the flags set on the command
// line, in increasing priority.
func loadConfig(cmd *cobra.Command, out interface{}) error {
	v := viper.New()
	if err := v.BindPFlags(cmd.Flags()); err != nil {
		return apperr.Wrap(apperr.Config, "flags", err)
	}
	v.SetEnvPrefix("NANOMUX")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if file := v.GetString("config"); file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return apperr.Wrap(apperr.Config, "config file", err)
		}
	}
	if err := v.Unmarshal(out); err != nil {
		return apperr.Wrap(apperr.Config, "config", err)
	}
	return nil
}
