package mcp

import (
	"context"
	"log"
	"os"
	"time"
)

// WatchParent monitors for parent process death in a background goroutine.
// When the parent PID changes (the MCP host disconnected or restarted), it
// calls cancelFn to trigger graceful shutdown. This prevents zombie server
// processes from accumulating.
//
// This must NOT read from stdin — the SDK's stdio transport owns stdin
// exclusively. Reading from it here would steal bytes and corrupt the
// JSON-RPC stream.
//
// The goroutine exits when ctx is canceled or parent death is detected.
func WatchParent(ctx context.Context, cancelFn context.CancelFunc) {
	ppid := os.Getppid()
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case <-time.After(2 * time.Second):
				if os.Getppid() != ppid {
					log.Printf("[mcp] WARN: parent process died (was pid %d), initiating shutdown", ppid)
					cancelFn()
					return
				}
			}
		}
	}()
}
