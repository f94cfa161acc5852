// Package log builds [log/slog] handlers from CLI configuration.
//
// It supports three output formats ([FormatText], [FormatJSON] and
// [FormatLogfmt]) and four levels ([LevelError], [LevelWarn], [LevelInfo] and
// [LevelDebug]). The text format is rendered by [charm.land/log/v2]. Use
// [NewHandler] directly, or [Config] for flag integration via
// [github.com/spf13/pflag] and completions via [github.com/spf13/cobra]:
//
//	cfg := log.NewConfig()
//	cfg.RegisterFlags(rootCmd.PersistentFlags())
//	cfg.RegisterCompletions(rootCmd)
//
//	handler, err := cfg.NewHandler(os.Stderr)
//	slog.SetDefault(slog.New(handler))
//
// While a full-screen display owns the terminal, logs cannot go to stderr.
// Write them to a [Publisher] instead and show the lines it delivers:
//
//	pub := log.NewPublisher()
//	handler, err := cfg.NewHandler(pub)
//	sub := pub.Subscribe()
//	for line := range sub.C() {
//	    // Show line in a status bar.
//	}
package log
