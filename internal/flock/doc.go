// Package flock provides cross-platform file locking utilities.
//
// Batuta uses a single advisory lock to serialize first-time generation of
// the shared debug keystore: concurrent invocations racing keytool against
// the same file would silently corrupt a credential reused by every later
// signing run. The lock is exclusive and non-blocking on both Unix and
// Windows systems.
//
// Usage:
//
//	file, _ := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0600)
//	if err := flock.Exclusive(file.Fd()); err != nil {
//	    // Lock not acquired - file is in use
//	}
//	defer flock.Unlock(file.Fd())
package flock
