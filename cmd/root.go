package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/kjetilpp/mysqldumpall/pkg/compression"
	"github.com/kjetilpp/mysqldumpall/pkg/config"
	"github.com/kjetilpp/mysqldumpall/pkg/core"
	"github.com/kjetilpp/mysqldumpall/pkg/database"
	"github.com/kjetilpp/mysqldumpall/pkg/filter"
)

type execs interface {
	SetLogger(logger *log.Logger)
	GetLogger() *log.Logger
	Dump(ctx context.Context, opts core.DumpOptions) (core.DumpResults, error)
	Timer(timerOpts core.TimerOptions, cmd func() error) error
}

type cmdConfiguration struct {
	dbconn        database.Connection
	configuration *config.Config
	logger        *log.Logger
	dumpToolArgs  []string
}

const defaultCompression = "gzip"

func rootCmd(execs execs, cmdConfig *cmdConfiguration) (*cobra.Command, error) {
	var (
		v   *viper.Viper
		cmd *cobra.Command
	)
	if cmdConfig == nil {
		cmdConfig = &cmdConfiguration{}
	}
	cmd = &cobra.Command{
		Use:   "mysqldumpall [flags] [pattern ...]",
		Short: "dump every database on a mysql-compatible server",
		Long: `Dump every database on a mysql-compatible server, one file per database,
		by shelling out to mysqldump. Trailing pattern arguments filter the databases:
		plain names form a skip list, or with -R ordered regular expressions where a
		leading : excludes what the expression matches. The dump files can be compressed
		individually and bundled into a tar, tar.gz or zip archive named from a
		strftime template.

		Any --long-option not listed below is not parsed here; it is passed through
		verbatim to mysqldump. Such an option must be self-contained, so use
		--opt=value rather than a separate value argument. A bare -- passes
		everything after it to mysqldump.`,
		PersistentPreRunE: func(c *cobra.Command, args []string) error {
			bindFlags(cmd, v)
			var logger = log.New()
			logLevel := v.GetInt("verbose")
			debugSet := v.IsSet("debug")
			if !v.IsSet("verbose") && (v.GetBool("debug") || (debugSet && v.GetString("debug") == "true")) {
				logLevel = 1
			}
			switch logLevel {
			case 0:
				logger.SetLevel(log.InfoLevel)
			case 1:
				logger.SetLevel(log.DebugLevel)
			case 2:
				logger.SetLevel(log.TraceLevel)
			}

			// read the config file, if needed; the structure of the config differs quite some
			// from the necessarily flat env vars/CLI flags, so we can't just use viper's
			// automatic config file support.
			var actualConfig *config.Config
			if configFilePath := v.GetString("config-file"); configFilePath != "" {
				var (
					f   *os.File
					err error
				)
				if f, err = os.Open(configFilePath); err != nil {
					return fmt.Errorf("fatal error config file: %w", err)
				}
				defer f.Close()
				actualConfig, err = config.ProcessConfig(f)
				if err != nil {
					return fmt.Errorf("unable to read provided config: %w", err)
				}
			}

			// set up database connection from the config file first, CLI/env overrides after
			if actualConfig != nil {
				if actualConfig.Database.Host != "" {
					cmdConfig.dbconn.Host = actualConfig.Database.Host
				}
				if actualConfig.Database.Port != 0 {
					cmdConfig.dbconn.Port = actualConfig.Database.Port
				}
				if actualConfig.Database.Socket != "" {
					cmdConfig.dbconn.Socket = actualConfig.Database.Socket
				}
				if actualConfig.Database.Credentials.Username != "" {
					cmdConfig.dbconn.User = actualConfig.Database.Credentials.Username
				}
				if actualConfig.Database.Credentials.Password != "" {
					cmdConfig.dbconn.Pass = actualConfig.Database.Credentials.Password
				}
				if actualConfig.Logging != "" && logLevel == 0 {
					level, err := log.ParseLevel(actualConfig.Logging)
					if err != nil {
						return fmt.Errorf("invalid logging level in config: %w", err)
					}
					logger.SetLevel(level)
				}
				cmdConfig.configuration = actualConfig
			}

			// override config with env var or CLI flag, if set
			dbHost := v.GetString("host")
			if dbHost != "" && v.IsSet("host") {
				cmdConfig.dbconn.Host = dbHost
			}
			dbPort := v.GetInt("port")
			if dbPort != 0 && v.IsSet("port") {
				cmdConfig.dbconn.Port = dbPort
			}
			dbSocket := v.GetString("socket")
			if dbSocket != "" && v.IsSet("socket") {
				cmdConfig.dbconn.Socket = dbSocket
			}
			dbUser := v.GetString("user")
			if dbUser != "" && v.IsSet("user") {
				cmdConfig.dbconn.User = dbUser
			}
			dbPass := v.GetString("pass")
			if dbPass != "" && v.IsSet("pass") {
				cmdConfig.dbconn.Pass = dbPass
			}
			cmdConfig.logger = logger

			var tracerProviderOpts []sdktrace.TracerProviderOption
			if v.GetBool("trace-stderr") {
				exp, err := stdouttrace.New(stdouttrace.WithPrettyPrint(), stdouttrace.WithWriter(os.Stderr))
				if err != nil {
					return fmt.Errorf("failed to initialize stdouttrace exporter: %w", err)
				}
				tracerProviderOpts = append(tracerProviderOpts, sdktrace.WithBatcher(exp))
			}
			otel.SetTracerProvider(sdktrace.NewTracerProvider(tracerProviderOpts...))
			return nil
		},
		RunE: func(c *cobra.Command, args []string) error {
			configuration := cmdConfig.configuration
			logger := cmdConfig.logger
			logger.Debug("starting dump")

			// pattern list and matching mode
			regex := v.GetBool("regex")
			if !regex && configuration != nil {
				regex = configuration.Dump.Regex
			}
			patterns := args
			if len(patterns) == 0 && configuration != nil {
				patterns = configuration.Dump.Patterns
			}
			filterMode := filter.Exact
			if regex {
				filterMode = filter.Regex
			}
			patternList, err := filter.Compile(filterMode, patterns)
			if err != nil {
				return err
			}

			// output mode: flags first, then the config file, default directory
			outputMode := core.Directory
			switch {
			case v.GetBool("tar"):
				outputMode = core.Tar
			case v.GetBool("zip"):
				outputMode = core.Zip
			case v.GetBool("directory"):
				// the default, flag kept for symmetry and explicitness
			case configuration != nil:
				switch configuration.Dump.Mode {
				case "", "directory":
				case "tar":
					outputMode = core.Tar
				case "zip":
					outputMode = core.Zip
				default:
					return fmt.Errorf("unknown dump mode in config: %s", configuration.Dump.Mode)
				}
			}

			// per-file compression algorithm: check config, then CLI/env var overrides
			compress := v.GetBool("compress")
			if !compress && configuration != nil {
				compress = configuration.Dump.Compress
			}
			var compressor compression.Compressor
			if compress {
				compressionAlgo := v.GetString("compression")
				if compressionAlgo == defaultCompression && configuration != nil && configuration.Dump.Compression != "" {
					compressionAlgo = configuration.Dump.Compression
				}
				compressor, err = compression.GetCompressor(compressionAlgo)
				if err != nil {
					return fmt.Errorf("failure to get compression '%s': %v", compressionAlgo, err)
				}
			}

			template := v.GetString("template")
			if template == core.DefaultNameTemplate && configuration != nil && configuration.Dump.Template != "" {
				template = configuration.Dump.Template
			}
			workdir := v.GetString("workdir")
			if workdir == "" && configuration != nil {
				workdir = configuration.Dump.Workdir
			}
			dumpToolArgs := cmdConfig.dumpToolArgs
			if len(dumpToolArgs) == 0 && configuration != nil {
				dumpToolArgs = configuration.Dump.Options
			}

			dumpOpts := core.DumpOptions{
				DBConn:       cmdConfig.dbconn,
				Filter:       patternList,
				Mode:         outputMode,
				Compressor:   compressor,
				NameTemplate: template,
				WorkDir:      workdir,
				DumpToolArgs: dumpToolArgs,
				Run:          uuid.New(),
			}

			// timer options
			once := v.GetBool("once")
			if !once && configuration != nil {
				once = configuration.Dump.Schedule.Once
			}
			cron := v.GetString("cron")
			if cron == "" && configuration != nil {
				cron = configuration.Dump.Schedule.Cron
			}
			begin := v.GetString("begin")
			if begin == "" && configuration != nil {
				begin = configuration.Dump.Schedule.Begin
			}
			frequency := v.GetInt("frequency")
			if frequency == 0 && configuration != nil {
				frequency = configuration.Dump.Schedule.Frequency
			}
			// with no schedule at all, a single immediate run
			if cron == "" && begin == "" && frequency == 0 {
				once = true
			}
			timerOpts := core.TimerOptions{
				Once:      once,
				Cron:      cron,
				Begin:     begin,
				Frequency: frequency,
			}

			if execs == nil {
				execs = &core.Executor{}
			}
			execs.SetLogger(logger)

			if err := execs.Timer(timerOpts, func() error {
				ctx, span := getTracer("dump").Start(c.Context(), "run")
				defer span.End()
				results, err := execs.Dump(ctx, dumpOpts)
				if err != nil {
					return err
				}
				logger.WithField("run", dumpOpts.Run.String()).Infof("dump complete, %d dumped, %d skipped, %d failed",
					len(results.Dumped), len(results.Skipped), len(results.Failed))
				return nil
			}); err != nil {
				return err
			}
			return nil
		},
	}

	v = viper.New()
	v.SetEnvPrefix("mysqldumpall")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	flags := cmd.Flags()
	// register help ourselves, long form only, so the -h shorthand stays free for host
	flags.Bool("help", false, "help for mysqldumpall")

	// connection options, forwarded to both listing and dumping
	flags.StringP("user", "u", "", "username for database server")
	flags.StringP("pass", "p", "", "password for database server")
	flags.StringP("host", "h", "", "hostname for database server")
	flags.StringP("socket", "S", "", "path to unix socket for database server; wins over host")
	flags.IntP("port", "P", 0, "port for database server")

	// pattern matching mode
	flags.BoolP("regex", "R", false, "treat patterns as regular expressions, first match wins; a leading : excludes what the expression matches")

	// output modes
	flags.BoolP("directory", "d", false, "leave the dump files in a directory, no archive; the default")
	flags.BoolP("tar", "t", false, "bundle the dump files into one tar.gz archive, or plain tar with -z")
	flags.BoolP("zip", "Z", false, "bundle the dump files into one zip archive")
	flags.BoolP("compress", "z", false, "compress each dump file individually")
	flags.String("compression", defaultCompression, "compression to use with -z. Supported are: gzip, bzip2")

	// naming and placement
	flags.StringP("template", "f", core.DefaultNameTemplate, "strftime template for the output base name; a trailing .tar.gz or .zip is stripped")
	flags.String("workdir", "", "directory in which the output is created, default current directory")

	flags.String("config-file", "", "config file to use, if any; individual CLI flags override config file")

	flags.IntP("verbose", "v", 0, "set log level, 1 is debug, 2 is trace")
	flags.Bool("debug", false, "set log level to debug, equivalent of --verbose=1")
	flags.Bool("trace-stderr", false, "trace to stderr")

	// scheduling
	flags.Bool("once", false, "run the dump once immediately and exit; the default unless a schedule is set")
	flags.String("cron", "", "set the dump schedule using standard crontab syntax, a single line")
	flags.String("begin", "", "what time to do the first dump. Absolute: HHMM, e.g. 2330 or 0415; or relative: +MM, e.g. +10 for in 10 minutes")
	flags.Int("frequency", 0, "how often to repeat the dump, in minutes")

	cmd.MarkFlagsMutuallyExclusive("directory", "tar", "zip")
	cmd.MarkFlagsMutuallyExclusive("once", "cron")
	cmd.MarkFlagsMutuallyExclusive("once", "begin")
	cmd.MarkFlagsMutuallyExclusive("once", "frequency")
	cmd.MarkFlagsMutuallyExclusive("cron", "begin")
	cmd.MarkFlagsMutuallyExclusive("cron", "frequency")

	return cmd, nil
}

// Bind each cobra flag to its associated viper configuration (config file and environment variable)
func bindFlags(cmd *cobra.Command, v *viper.Viper) {
	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		configName := f.Name
		_ = v.BindPFlag(configName, f)
		// Apply the viper config value to the flag when the flag is not set and viper has a value
		if !f.Changed && v.IsSet(configName) {
			val := v.Get(configName)
			_ = cmd.Flags().Set(f.Name, fmt.Sprintf("%v", val))
		}
	})
}

// Execute primary function for cobra
func Execute() {
	cmdConfig := &cmdConfiguration{}
	rootCmd, err := rootCmd(nil, cmdConfig)
	if err != nil {
		log.Fatal(err)
	}
	cliArgs, dumpToolArgs := splitDumpToolArgs(rootCmd.Flags(), os.Args[1:])
	cmdConfig.dumpToolArgs = dumpToolArgs
	rootCmd.SetArgs(cliArgs)
	err = rootCmd.Execute()
	if tp := getTracerProvider(); tp != nil {
		_ = tp.Shutdown(context.Background())
	}
	if err != nil {
		log.Fatal(err)
	}
}
