package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"testcase-generator/internal/client"
)

const defaultServer = "http://localhost:5000"

type app struct {
	in        *bufio.Reader
	out       io.Writer
	server    string
	tokenFile string
	timeout   time.Duration
	client    *client.Client
}

func newApp(in io.Reader, out io.Writer) *app {
	return &app{
		in:  bufio.NewReader(in),
		out: out,
	}
}

func newRootCmd(a *app) *cobra.Command {
	server := os.Getenv("TCGEN_SERVER")
	if server == "" {
		server = defaultServer
	}

	root := &cobra.Command{
		Use:           "tcgen",
		Short:         "Generate and manage test cases from the command line",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			path := a.tokenFile
			if path == "" {
				var err error
				if path, err = client.DefaultTokenPath(); err != nil {
					return err
				}
			}
			a.client = client.New(a.server, client.NewFileTokenStore(path), a.timeout)
			return nil
		},
	}
	root.SetOut(a.out)
	root.PersistentFlags().StringVar(&a.server, "server", server, "API server URL (env TCGEN_SERVER)")
	root.PersistentFlags().DurationVar(&a.timeout, "timeout", client.DefaultTimeout, "request timeout")
	root.PersistentFlags().StringVar(&a.tokenFile, "token-file", "", "token cache file (default $XDG_CONFIG_HOME/tcgen/token)")

	root.AddCommand(
		newRegisterCmd(a),
		newLoginCmd(a),
		newLogoutCmd(a),
		newWhoamiCmd(a),
		newGenerateCmd(a),
		newListCmd(a),
		newCreateCmd(a),
		newUpdateCmd(a),
		newDeleteCmd(a),
		newExportCmd(a),
	)
	return root
}

func (a *app) printf(format string, args ...any) {
	fmt.Fprintf(a.out, format, args...)
}
