// Package commands implements the revtrust command line.
package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/meigma/revtrust"
	"github.com/meigma/revtrust/pin"
	"github.com/meigma/revtrust/policy"
	"github.com/meigma/revtrust/verify/openpgp"
)

// errUntrusted is returned by commands whose output already explains the
// failure. It only sets the exit status.
var errUntrusted = errors.New("untrusted")

// app carries the state shared by the subcommands of one invocation.
type app struct {
	v      *viper.Viper
	cfg    *config
	logger *slog.Logger
	stdout io.Writer
	stderr io.Writer
}

// Execute runs the command line and returns the process exit code.
func Execute() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	cmd := newRootCommand(os.Stdout, os.Stderr)
	if err := cmd.ExecuteContext(ctx); err != nil {
		if !errors.Is(err, errUntrusted) {
			fmt.Fprintln(os.Stderr, "revtrust:", err)
		}
		return 1
	}
	return 0
}

func newRootCommand(stdout, stderr io.Writer) *cobra.Command {
	a := &app{v: viper.New(), stdout: stdout, stderr: stderr}

	root := &cobra.Command{
		Use:   "revtrust",
		Short: "Check that a git data repository checkout can be trusted",
		Long: `revtrust inspects the head revision of a git data repository, checks that
it is recent and signed, and resets the checkout to the last trusted revision
when it is not.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			file, err := cmd.Flags().GetString("config")
			if err != nil {
				return err
			}
			cfg, err := readConfig(a.v, file)
			if err != nil {
				return err
			}
			a.cfg = cfg
			a.logger = cfg.logger(a.stderr)
			return nil
		},
	}
	root.SetOut(stdout)
	root.SetErr(stderr)
	addGlobalFlags(root.PersistentFlags(), a.v)

	root.AddCommand(
		newInspectCommand(a),
		newCheckCommand(a),
		newResetCommand(a),
		newRecoverCommand(a),
	)
	return root
}

// checker builds a revtrust.Checker from the resolved configuration.
func (a *app) checker() (*revtrust.Checker, error) {
	opts := []revtrust.Option{
		revtrust.WithMaxAgeDays(a.cfg.MaxAgeDays),
		revtrust.WithRequireSignature(a.cfg.RequireSignature),
		revtrust.WithLogger(a.logger),
	}

	if a.cfg.PinDir != "" {
		store, err := pin.NewDisk(a.cfg.PinDir)
		if err != nil {
			return nil, err
		}
		opts = append(opts, revtrust.WithPinStore(store))
	}

	if a.cfg.Keyring != "" {
		f, err := os.Open(a.cfg.Keyring)
		if err != nil {
			return nil, fmt.Errorf("open keyring: %w", err)
		}
		defer f.Close()
		verifier, err := openpgp.NewVerifier(f)
		if err != nil {
			return nil, err
		}
		opts = append(opts, revtrust.WithPolicy(policy.RequireVerified(verifier)))
	}

	return revtrust.New(opts...)
}

// repoPath returns the absolute form of the optional path argument.
func repoPath(args []string) (string, error) {
	path := "."
	if len(args) > 0 {
		path = args[0]
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolve %s: %w", path, err)
	}
	return abs, nil
}

func (a *app) render(r report) error {
	return render(a.stdout, a.cfg.Output, []report{r}, false)
}

func (a *app) renderList(reports []report) error {
	return render(a.stdout, a.cfg.Output, reports, true)
}
