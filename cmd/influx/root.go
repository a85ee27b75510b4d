/*
 * Copyright 2026 The influx-go Authors
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package main

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	influx "github.com/influxshell/influx-go"
	"github.com/influxshell/influx-go/internal/shell"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

const envPrefix = "INFLUX"

// options holds everything the command line can set.
type options struct {
	influx.Config

	ConfigFile  string
	HistoryPath string
	Verbose     bool

	dryRun bool
}

func newRootCommand(o *options, stdin io.ReadCloser, stdout, stderr io.Writer) *cobra.Command {
	rc := &cobra.Command{
		Use:   "influx",
		Short: "Interactive shell for InfluxDB",
		Long: `Interactive shell for InfluxDB.

Every line is sent to the active database as a query, except for:

  use <name>   switch the active database
  ping         probe the server
  version      print the server version
  quit, exit   leave the shell

Options may also be given as INFLUX_<FLAG> environment variables or in a TOML
file passed with --config.`,
		SilenceUsage: true,
		Args:         cobra.NoArgs,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return setAllConfig(viper.New(), cmd.Flags())
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if o.dryRun {
				return nil
			}
			return run(cmd.Context(), o, stdin, stdout, stderr)
		},
	}

	flags := rc.Flags()
	flags.StringVarP(&o.ConfigFile, "config", "c", "", "Configuration file to read from.")
	flags.StringVar(&o.Host, "host", "localhost", "Hostname of the InfluxDB server.")
	flags.IntVar(&o.Port, "port", 8086, "Port of the InfluxDB server.")
	flags.BoolVar(&o.Secure, "secure", false, "Connect over https.")
	flags.StringVar(&o.User, "user", "root", "User name.")
	flags.StringVar(&o.Password, "password", "root", "Password.")
	flags.StringVar(&o.Database, "database", "", "Database to use on start.")
	flags.DurationVar(&o.Timeout, "timeout", 30*time.Second, "Per-request timeout, 0 for none.")
	flags.IntVar(&o.RetryMax, "retry-max", 0, "Retries for unavailable servers and failed connections.")
	flags.BoolVar(&o.StrictVersion, "strict-version", false, "Report transport errors from the version command.")
	flags.StringVar(&o.HistoryPath, "history-path", "", "Path of the history file (default ~/.influx_history).")
	flags.BoolVarP(&o.Verbose, "verbose", "v", false, "Log requests and retries.")
	flags.BoolVar(&o.dryRun, "dry-run", false, "stop before executing")
	_ = flags.MarkHidden("dry-run")

	rc.SetIn(stdin)
	rc.SetOut(stdout)
	rc.SetErr(stderr)
	return rc
}

// setAllConfig resolves every flag from, in priority order, the command line,
// INFLUX_ environment variables and the config file named by --config. Dashes
// in flag names become underscores in environment variable names.
func setAllConfig(v *viper.Viper, flags *pflag.FlagSet) error {
	if err := v.BindPFlags(flags); err != nil {
		return err
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()

	validTags := make(map[string]bool)
	flags.VisitAll(func(f *pflag.Flag) {
		validTags[f.Name] = true
	})

	if c := v.GetString("config"); c != "" {
		v.SetConfigFile(c)
		v.SetConfigType("toml")
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("error reading configuration file '%s': %v", c, err)
		}
		for _, key := range v.AllKeys() {
			if !validTags[key] {
				return fmt.Errorf("invalid option in configuration file: %v", key)
			}
		}
	}

	var flagErr error
	flags.VisitAll(func(f *pflag.Flag) {
		// Flags set on the command line already hold the winning value.
		if flagErr != nil || f.Changed {
			return
		}
		if err := f.Value.Set(v.GetString(f.Name)); err != nil {
			flagErr = errors.Wrapf(err, "setting %s", f.Name)
		}
	})
	return flagErr
}

func newLogger(verbose bool) (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	return cfg.Build()
}

func run(ctx context.Context, o *options, stdin io.ReadCloser, stdout, stderr io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}
	log, err := newLogger(o.Verbose)
	if err != nil {
		return errors.Wrap(err, "building logger")
	}
	defer func() { _ = log.Sync() }()

	config := o.Config
	config.Logger = log
	conn := influx.Open(&config)
	defer conn.Close()

	sh := &shell.Shell{
		Conn:        conn,
		HistoryPath: o.HistoryPath,
		Stdin:       stdin,
		Stdout:      stdout,
		Stderr:      stderr,
		Logger:      log.Named("shell"),
	}
	return errors.Wrap(sh.Run(ctx), "running shell")
}
