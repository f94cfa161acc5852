// Package profile adds runtime profiling to the asciiplay CLI.
//
// It supports CPU, heap, allocs, goroutine, threadcreate, block, and mutex
// profiles, plus a runtime execution trace, through command-line flags. The
// playback loop marks each frame's decode, rasterize and display phases as
// trace regions, so a trace written with --trace shows where frame time goes.
//
// Typical usage creates a [Config], registers flags, then creates a [Profiler]
// to wrap command execution:
//
//	cfg := profile.NewConfig()
//	p := cfg.NewProfiler()
//
//	rootCmd := &cobra.Command{
//	    PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
//	        return p.Start()
//	    },
//	}
//
//	cfg.RegisterFlags(rootCmd.PersistentFlags())
//	err := rootCmd.Execute()
//	stopErr := p.Stop()
//
// Users can then enable profiling via flags like --cpu-profile=cpu.prof or
// --trace=play.trace.
package profile
