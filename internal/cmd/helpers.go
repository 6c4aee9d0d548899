package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/fdeantoni/aduana"
)

// newInspector builds an Inspector from the persistent flags, falling back
// to the loaded configuration for anything not set on the command line.
func newInspector(cmd *cobra.Command) (*aduana.Inspector, error) {
	url, err := cmd.Flags().GetString("registry")
	if err != nil {
		return nil, fmt.Errorf("get registry flag: %w", err)
	}
	certPath, err := cmd.Flags().GetString("cert")
	if err != nil {
		return nil, fmt.Errorf("get cert flag: %w", err)
	}

	cfg := ConfigFromContext(cmd.Context())
	if url == "" && cfg != nil {
		url = cfg.Registry.URL
	}
	if certPath == "" && cfg != nil {
		certPath = cfg.Registry.Cert
	}

	if url == "" {
		return nil, errors.New("no registry configured: pass --registry or set registry.url")
	}

	inspector := aduana.NewInspector(url)

	if certPath != "" {
		pem, err := os.ReadFile(certPath)
		if err != nil {
			return nil, fmt.Errorf("read certificate: %w", err)
		}
		inspector = inspector.WithCert(pem)
	}

	return inspector, nil
}

// outputFormat resolves the output format from the command flag, then the
// configuration, then the table default.
func outputFormat(cmd *cobra.Command) (string, error) {
	format, err := cmd.Flags().GetString("output")
	if err != nil {
		return "", fmt.Errorf("get output flag: %w", err)
	}
	if format == "" {
		if cfg := ConfigFromContext(cmd.Context()); cfg != nil && cfg.Output.Format != "" {
			format = cfg.Output.Format
		} else {
			format = "table"
		}
	}
	switch format {
	case "table", "yaml":
		return format, nil
	default:
		return "", fmt.Errorf("unsupported output format %q (valid: table, yaml)", format)
	}
}
