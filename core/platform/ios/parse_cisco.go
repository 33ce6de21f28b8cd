package ios

import (
	"strings"

	"github.com/carlosrabelo/netcfg/core/domain/entities"
)

var commandErrHints = []string{
	"% invalid input",
	"% incomplete command",
	"% ambiguous command",
	"% unknown command",
	"% unrecognized command",
	"% invalid command",
}

// parseIOSInterfaceBrief keeps rows with at least five columns.
// Status may span words ("administratively down"); protocol is the last column.
func parseIOSInterfaceBrief(output string) []entities.InterfaceStatus {
	statuses := make([]entities.InterfaceStatus, 0)
	for _, line := range strings.Split(output, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || isSeparatorLine(trimmed) {
			continue
		}
		fields := strings.Fields(trimmed)
		if len(fields) < 5 {
			continue
		}
		if strings.EqualFold(fields[0], "interface") {
			continue
		}
		status := entities.InterfaceStatus{
			Interface: fields[0],
			IPAddress: fields[1],
			Status:    fields[4],
		}
		if len(fields) >= 6 {
			status.Status = strings.Join(fields[4:len(fields)-1], " ")
			status.Protocol = fields[len(fields)-1]
		}
		statuses = append(statuses, status)
	}
	return statuses
}

func isIOSCommandError(output string) bool {
	lower := strings.ToLower(output)
	for _, keyword := range commandErrHints {
		if strings.Contains(lower, keyword) {
			return true
		}
	}
	return false
}

func isSeparatorLine(line string) bool {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		return true
	}
	if len(trimmed) < 3 {
		return false
	}
	for _, ch := range trimmed {
		if ch != '-' && ch != '=' && ch != '+' && ch != '*' {
			return false
		}
	}
	return true
}
