package probe

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"irwake/internal/config"
)

// replyMarkers identify an echo reply line in ping output, including the
// zh_CN localisation.
var replyMarkers = []string{"bytes from", "来自"}

// CommandRunner runs name with args and returns its stdout.
type CommandRunner func(ctx context.Context, name string, args ...string) ([]byte, error)

// ExecPinger shells out to the system ping binary.
type ExecPinger struct {
	count    int
	interval time.Duration
	run      CommandRunner
}

func NewExecPinger(cfg config.Probe) *ExecPinger {
	return &ExecPinger{count: cfg.Count, interval: cfg.Interval, run: runCommand}
}

func runCommand(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).Output()
}

// Ping runs `ping -c <count> -i <interval> host`. A non-zero exit status
// with output is not an error: ping exits 1 when some replies are lost.
func (p *ExecPinger) Ping(ctx context.Context, host string) (int, error) {
	args := []string{"-c", strconv.Itoa(p.count), "-i", formatSeconds(p.interval), host}
	out, err := p.run(ctx, "ping", args...)
	if err != nil {
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) {
			return 0, fmt.Errorf("run ping: %w", err)
		}
	}
	return CountReplies(out), nil
}

// CountReplies counts reply lines in ping output.
func CountReplies(out []byte) int {
	n := 0
	sc := bufio.NewScanner(bytes.NewReader(out))
	for sc.Scan() {
		line := sc.Text()
		for _, m := range replyMarkers {
			if strings.Contains(line, m) {
				n++
				break
			}
		}
	}
	return n
}

func formatSeconds(d time.Duration) string {
	return strconv.FormatFloat(d.Seconds(), 'f', -1, 64)
}
