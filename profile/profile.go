package profile

import (
	"errors"
	"fmt"
	"os"
	"runtime"
	"runtime/pprof"
	"runtime/trace"
)

// Profiler controls the lifecycle of runtime profiling sessions.
//
// Call [Profiler.Start] to begin profiling and [Profiler.Stop] to write all
// enabled profiles.
//
// Create instances with [Config.NewProfiler].
type Profiler struct {
	cpuFile   *os.File
	traceFile *os.File
	Config
}

// Start configures runtime profiling rates and starts CPU profiling and
// execution tracing if enabled. Call [Profiler.Stop] when profiling is
// complete to write snapshot profiles.
func (c *Profiler) Start() error {
	// Configure profiling rates.
	runtime.MemProfileRate = c.MemProfileRate
	runtime.SetBlockProfileRate(c.BlockProfileRate)
	runtime.SetMutexProfileFraction(c.MutexProfileFraction)

	if c.CPUProfile != "" {
		f, err := os.Create(c.CPUProfile) //nolint:gosec // Profile path from CLI flag is expected.
		if err != nil {
			return fmt.Errorf("creating CPU profile: %w", err)
		}

		err = pprof.StartCPUProfile(f)
		if err != nil {
			must(f.Close())

			return fmt.Errorf("starting CPU profile: %w", err)
		}

		c.cpuFile = f
	}

	if c.Trace != "" {
		f, err := os.Create(c.Trace) //nolint:gosec // Trace path from CLI flag is expected.
		if err != nil {
			return errors.Join(fmt.Errorf("creating trace: %w", err), c.stopCPU())
		}

		err = trace.Start(f)
		if err != nil {
			must(f.Close())

			return errors.Join(fmt.Errorf("starting trace: %w", err), c.stopCPU())
		}

		c.traceFile = f
	}

	return nil
}

// Stop stops CPU profiling and tracing, then writes all enabled snapshot
// profiles.
func (c *Profiler) Stop() error {
	if c.traceFile != nil {
		trace.Stop()

		err := c.traceFile.Close()
		c.traceFile = nil

		if err != nil {
			return fmt.Errorf("closing trace: %w", err)
		}
	}

	err := c.stopCPU()
	if err != nil {
		return err
	}

	return c.writeSnapshots()
}

func (c *Profiler) stopCPU() error {
	if c.cpuFile == nil {
		return nil
	}

	pprof.StopCPUProfile()

	err := c.cpuFile.Close()
	c.cpuFile = nil

	if err != nil {
		return fmt.Errorf("closing CPU profile: %w", err)
	}

	return nil
}

// writeSnapshots writes all enabled snapshot profiles (heap, allocs, goroutine,
// etc.).
func (c *Profiler) writeSnapshots() error {
	profiles := []struct {
		name string
		path string
	}{
		{"heap", c.HeapProfile},
		{"allocs", c.AllocsProfile},
		{"goroutine", c.GoroutineProfile},
		{"threadcreate", c.ThreadcreateProfile},
		{"block", c.BlockProfile},
		{"mutex", c.MutexProfile},
	}

	for _, p := range profiles {
		if p.path == "" {
			continue
		}

		err := c.writeProfile(p.name, p.path)
		if err != nil {
			return fmt.Errorf("write %s profile: %w", p.name, err)
		}
	}

	return nil
}

// writeProfile writes a named pprof profile to the given file path.
func (c *Profiler) writeProfile(name, path string) error {
	f, err := os.Create(path) //nolint:gosec // Profile path from CLI flag is expected.
	if err != nil {
		return fmt.Errorf("create %s profile: %w", name, err)
	}

	prof := pprof.Lookup(name)
	if prof == nil {
		must(f.Close())

		return fmt.Errorf("unknown profile: %s", name)
	}

	err = prof.WriteTo(f, 0)
	if err != nil {
		must(f.Close())

		return fmt.Errorf("write %s profile: %w", name, err)
	}

	err = f.Close()
	if err != nil {
		return fmt.Errorf("write %s profile: %w", name, err)
	}

	return nil
}

func must(err error) {
	if err != nil {
		panic(err)
	}
}
