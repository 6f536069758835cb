package statsd

import (
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// listenUDP starts a UDP listener and returns received lines on a channel.
func listenUDP(t *testing.T) (string, <-chan string) {
	t.Helper()

	conn, err := net.ListenPacket("udp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	lines := make(chan string, 16)
	go func() {
		buf := make([]byte, 1024)
		for {
			n, _, readErr := conn.ReadFrom(buf)
			if readErr != nil {
				return
			}
			lines <- string(buf[:n])
		}
	}()
	return conn.LocalAddr().String(), lines
}

func receive(t *testing.T, lines <-chan string) string {
	t.Helper()
	select {
	case line := <-lines:
		return line
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for metric line")
		return ""
	}
}

func TestClient_Count(t *testing.T) {
	addr, lines := listenUDP(t)

	client, err := NewClient(Config{Enabled: true, Address: addr, Prefix: "scoring"})
	require.NoError(t, err)
	defer client.Close()

	client.Count("jobs.transition", 1, map[string]string{"status": "scoring", "result": "success"})

	line := receive(t, lines)
	assert.Equal(t, "scoring.jobs.transition:1|c|#result:success,status:scoring", line)
}

func TestClient_GaugeAndTiming(t *testing.T) {
	addr, lines := listenUDP(t)

	client, err := NewClient(Config{Enabled: true, Address: addr})
	require.NoError(t, err)
	defer client.Close()

	client.Gauge("logtail.window", 100, nil)
	assert.Equal(t, "logtail.window:100|g", receive(t, lines))

	client.Timing("poll.duration", 250*time.Millisecond, nil)
	assert.Equal(t, "poll.duration:250|ms", receive(t, lines))
}

func TestClient_Disabled(t *testing.T) {
	client, err := NewClient(Config{Enabled: false})
	require.NoError(t, err)

	// Must be a silent no-op, including on a nil receiver.
	client.Count("x", 1, nil)
	var nilClient *Client
	nilClient.Count("x", 1, nil)
	assert.NoError(t, client.Close())
	assert.NoError(t, nilClient.Close())
}
