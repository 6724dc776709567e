package cli

import (
	"os"
	"runtime"
	"runtime/pprof"

	"github.com/pkg/errors"
)

// startProfile starts CPU profiling into file, if one is given. The returned
// function stops it.
func startProfile(file string) (stop func(), err error) {
	if file == "" {
		return func() {}, nil
	}
	f, err := os.Create(file)
	if err != nil {
		return nil, errors.Wrap(err, "could not create CPU profile")
	}
	if err := pprof.StartCPUProfile(f); err != nil {
		f.Close()
		return nil, errors.Wrap(err, "could not start CPU profile")
	}
	return func() {
		pprof.StopCPUProfile()
		f.Close()
	}, nil
}

func writeMemProfile(file string) error {
	if file == "" {
		return nil
	}
	f, err := os.Create(file)
	if err != nil {
		return errors.Wrap(err, "could not create memory profile")
	}
	defer f.Close()
	runtime.GC() // get up-to-date statistics
	if err := pprof.WriteHeapProfile(f); err != nil {
		return errors.Wrap(err, "could not write memory profile")
	}
	return nil
}
