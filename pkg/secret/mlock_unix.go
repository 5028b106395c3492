//go:build unix

package secret

import "golang.org/x/sys/unix"

// lock pins buf in RAM. Failure (RLIMIT_MEMLOCK, empty buffer) is not fatal,
// the key is still wiped on Destroy.
func lock(buf []byte) bool {
	if len(buf) == 0 {
		return false
	}
	return unix.Mlock(buf) == nil
}

func unlock(buf []byte) {
	_ = unix.Munlock(buf)
}
