package testutil

import (
	"net"
	"strconv"
	"sync"
	"testing"
)

// maxPortAttempts bounds the retries when the kernel hands back a port that an earlier test in
// the same binary already received.
const maxPortAttempts = 20

var reserved = struct {
	sync.Mutex
	ports map[int]struct{}
}{ports: make(map[int]struct{})}

// GetRandomPort returns a free loopback TCP port that no other caller in this test binary has
// received.
func GetRandomPort(t *testing.T) int {
	t.Helper()
	reserved.Lock()
	defer reserved.Unlock()

	for range maxPortAttempts {
		l, err := net.Listen("tcp", "127.0.0.1:0")
		if err != nil {
			t.Fatalf("failed to reserve a port: %v", err)
		}
		p := l.Addr().(*net.TCPAddr).Port
		if err := l.Close(); err != nil {
			t.Fatalf("failed to release port %d: %v", p, err)
		}
		if _, taken := reserved.ports[p]; !taken {
			reserved.ports[p] = struct{}{}
			return p
		}
	}
	t.Fatalf("no unused port after %d attempts", maxPortAttempts)
	return 0
}

// GetRandomListeningPort returns a loopback listen address, such as a diagnostics listener
// would be configured with.
func GetRandomListeningPort(t *testing.T) string {
	t.Helper()
	return net.JoinHostPort("127.0.0.1", strconv.Itoa(GetRandomPort(t)))
}
