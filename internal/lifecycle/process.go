package lifecycle

import (
	"context"
	"log"
	"os"
	"syscall"
	"time"
)

// ProcessWatcher polls the host editor process's liveness and exits the
// indexer when it's gone, matching how editor-integrated language servers
// avoid becoming orphaned background processes. Probed with signal 0 via
// os.Process.Signal, which on Unix performs the liveness check without
// actually delivering a signal.
type ProcessWatcher struct {
	pid      int
	interval time.Duration
	exit     func(int)
}

// NewProcessWatcher creates a watcher for the given host-editor PID, polling
// every 60 seconds per spec.md §7 ("Host editor dead").
func NewProcessWatcher(pid int) *ProcessWatcher {
	return &ProcessWatcher{
		pid:      pid,
		interval: 60 * time.Second,
		exit:     os.Exit,
	}
}

// Run blocks, polling until ctx is canceled or the host process is found
// dead, in which case it calls os.Exit(1).
func (pw *ProcessWatcher) Run(ctx context.Context) {
	ticker := time.NewTicker(pw.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if !pw.alive() {
				log.Printf("lifecycle: host editor process %d is gone, exiting", pw.pid)
				pw.exit(1)
				return
			}
		}
	}
}

func (pw *ProcessWatcher) alive() bool {
	proc, err := os.FindProcess(pw.pid)
	if err != nil {
		return false
	}
	err = proc.Signal(syscall.Signal(0))
	return err == nil
}
