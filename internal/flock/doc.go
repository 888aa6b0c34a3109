// Package flock provides cross-platform file locking for the status file.
//
// The status file is written by a single shipyard process but may be read at
// any time by the notifier, so every rewrite happens under an exclusive lock
// on a sibling ".lock" file:
//
//	lock, err := flock.Acquire(ctx, path+".lock", 5*time.Second, 50*time.Millisecond)
//	if err != nil {
//	    return err
//	}
//	defer func() { _ = lock.Release() }()
package flock
