// internal/syncjob/cron.go
package syncjob

import (
	"fmt"
	"os/exec"
	"strings"

	"github.com/solverlab/benchdash/internal/logging"
)

// DefaultSchedule runs the sync nightly, after the benchmark jobs finish.
const DefaultSchedule = "17 3 * * *"

// CronLine builds the crontab entry for a daily sync.
func CronLine(schedule, binary, configPath string) string {
	if schedule == "" {
		schedule = DefaultSchedule
	}
	line := fmt.Sprintf("%s %s sync", schedule, binary)
	if configPath != "" {
		line += " --config " + configPath
	}
	return line
}

// MergeCrontab appends line to an existing crontab body unless an equivalent
// entry is already present.
func MergeCrontab(existing, line string) (string, bool) {
	for _, l := range strings.Split(existing, "\n") {
		if strings.TrimSpace(l) == line {
			return existing, false
		}
	}
	body := strings.TrimRight(existing, "\n")
	if body != "" {
		body += "\n"
	}
	return body + line + "\n", true
}

// InstallCron registers the sync as a daily cron entry for the current user.
func InstallCron(schedule, binary, configPath string) error {
	line := CronLine(schedule, binary, configPath)

	// A missing crontab exits non-zero; treat it as empty.
	out, err := exec.Command("crontab", "-l").Output()
	if err != nil {
		out = nil
	}

	merged, changed := MergeCrontab(string(out), line)
	if !changed {
		logging.LogEvent("cron entry already installed: %s", line)
		return nil
	}

	cmd := exec.Command("crontab", "-")
	cmd.Stdin = strings.NewReader(merged)
	if output, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("install crontab: %w: %s", err, output)
	}
	logging.LogEvent("installed cron entry: %s", line)
	return nil
}
