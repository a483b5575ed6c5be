package patcher

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/mrz1836/batuta/internal/constants"
	"github.com/mrz1836/batuta/internal/errors"
	"github.com/mrz1836/batuta/internal/flock"
	"github.com/mrz1836/batuta/internal/tool"
)

// SigningIdentity is a keystore plus the credentials to use one key in it.
type SigningIdentity struct {
	// Keystore is the keystore file path.
	Keystore string
	// KeyAlias names the key inside the keystore.
	KeyAlias string
	// StorePass is the keystore password.
	StorePass string
	// KeyPass is the key password.
	KeyPass string
}

// DebugIdentity returns the debug SigningIdentity rooted at dir. The
// keystore file may not exist yet; see EnsureDebugKeystore.
func DebugIdentity(dir string) SigningIdentity {
	return SigningIdentity{
		Keystore:  filepath.Join(dir, constants.DebugKeystoreFile),
		KeyAlias:  constants.DebugKeyAlias,
		StorePass: constants.DebugStorePass,
		KeyPass:   constants.DebugKeyPass,
	}
}

// provisionGroup deduplicates concurrent in-process provisioning per path.
var provisionGroup singleflight.Group //nolint:gochecknoglobals // process-wide dedup is the point

// lockPollInterval is how often a blocked provisioner re-tries the file lock.
const lockPollInterval = 100 * time.Millisecond

// EnsureDebugKeystore returns the debug identity rooted at dir, generating
// the keystore with keytool on first use. Generation is idempotent: the
// keystore is created at most once and reused by every later run.
//
// The check-then-create is guarded by an advisory file lock (plus an
// in-process singleflight), so concurrent first-time invocations cannot race
// keytool against the same file and corrupt a credential shared by every
// later signing run.
func EnsureDebugKeystore(ctx context.Context, runner tool.Runner, dir string) (SigningIdentity, bool, error) {
	identity := DebugIdentity(dir)

	// Fast path: already provisioned.
	if fileExists(identity.Keystore) {
		return identity, false, nil
	}

	type outcome struct{ created bool }
	v, err, _ := provisionGroup.Do(identity.Keystore, func() (any, error) {
		created, provErr := provisionKeystore(ctx, runner, dir, identity)
		return outcome{created: created}, provErr
	})
	if err != nil {
		return SigningIdentity{}, false, err
	}
	return identity, v.(outcome).created, nil
}

// provisionKeystore creates the keystore under an exclusive file lock.
func provisionKeystore(ctx context.Context, runner tool.Runner, dir string, identity SigningIdentity) (bool, error) {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return false, errors.Wrapf(err, "failed to create keystore directory %s", dir)
	}

	lockFile, err := os.OpenFile(identity.Keystore+".lock", os.O_RDWR|os.O_CREATE, 0o600) //#nosec G304 -- path derived from configured keystore dir
	if err != nil {
		return false, errors.Wrap(err, "failed to open keystore lock file")
	}
	defer func() { _ = lockFile.Close() }()

	if err = acquireLock(ctx, lockFile.Fd()); err != nil {
		return false, err
	}
	defer func() { _ = flock.Unlock(lockFile.Fd()) }()

	// Another process may have won the race while we waited for the lock.
	if fileExists(identity.Keystore) {
		return false, nil
	}

	inv := tool.Command(
		constants.ToolKeytool,
		"-genkey", "-v",
		"-keystore", identity.Keystore,
		"-alias", identity.KeyAlias,
		"-keyalg", constants.DebugKeyAlgorithm,
		"-keysize", constants.DebugKeySize,
		"-validity", constants.DebugKeyValidity,
		"-storepass", identity.StorePass,
		"-keypass", identity.KeyPass,
		"-dname", constants.DebugKeyDName,
	)

	if _, err = tool.RunStage(ctx, runner, nil, inv, identity.Keystore); err != nil {
		return false, fmt.Errorf("%w: generating debug keystore: %w", errors.ErrSign, err)
	}
	return true, nil
}

// acquireLock polls the non-blocking exclusive lock until it is held or the
// context ends.
func acquireLock(ctx context.Context, fd uintptr) error {
	for {
		if err := flock.Exclusive(fd); err == nil {
			return nil
		}
		select {
		case <-ctx.Done():
			return errors.Wrap(ctx.Err(), "waiting for keystore lock")
		case <-time.After(lockPollInterval):
		}
	}
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
