package cli

import (
	"shortlist/internal/config"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// addServerFlags registers the listener flags shared by serve and api
func addServerFlags(flags *pflag.FlagSet) {
	flags.StringP("port", "p", "", "Port to listen on (default from config)")
	flags.String("host", "", "Host to bind to (default from config)")
	flags.String("tls-mode", "", "TLS mode: disabled, server (overrides config)")
	flags.String("cert-file", "", "Server certificate file (PEM, overrides config)")
	flags.String("key-file", "", "Server private key file (PEM, overrides config)")
}

// applyServerFlags copies explicitly set listener flags over the configured values
func applyServerFlags(cmd *cobra.Command, sc *config.ServerConfig) {
	overrides := map[string]*string{
		"port":      &sc.Port,
		"host":      &sc.Host,
		"tls-mode":  &sc.TLS.Mode,
		"cert-file": &sc.TLS.CertFile,
		"key-file":  &sc.TLS.KeyFile,
	}
	for name, target := range overrides {
		overrideString(cmd, name, target)
	}
}

// overrideString sets *target from the named flag when the user passed it
func overrideString(cmd *cobra.Command, name string, target *string) {
	if !cmd.Flags().Changed(name) {
		return
	}
	if value, err := cmd.Flags().GetString(name); err == nil {
		*target = value
	}
}
