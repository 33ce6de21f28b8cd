package ios

import (
	"reflect"
	"testing"

	"github.com/carlosrabelo/netcfg/core/domain/entities"
)

func TestParseIOSInterfaceBrief(t *testing.T) {
	output := `Interface              IP-Address      OK? Method Status                Protocol
GigabitEthernet0/0     10.0.0.1        YES NVRAM  up                    up
GigabitEthernet0/1     unassigned      YES NVRAM  administratively down down
Loopback0              1.1.1.1         YES manual up
Vlan1                  unassigned
`
	got := parseIOSInterfaceBrief(output)
	expected := []entities.InterfaceStatus{
		{Interface: "GigabitEthernet0/0", IPAddress: "10.0.0.1", Status: "up", Protocol: "up"},
		{Interface: "GigabitEthernet0/1", IPAddress: "unassigned", Status: "administratively down", Protocol: "down"},
		{Interface: "Loopback0", IPAddress: "1.1.1.1", Status: "up"},
	}
	if !reflect.DeepEqual(got, expected) {
		t.Fatalf("unexpected interface brief: %+v", got)
	}
}

func TestParseIOSInterfaceBrief_Empty(t *testing.T) {
	if got := parseIOSInterfaceBrief(""); len(got) != 0 {
		t.Fatalf("expected no rows, got %+v", got)
	}
}

func TestIsIOSCommandError(t *testing.T) {
	tests := []struct {
		output   string
		expected bool
	}{
		{"                ^\n% Invalid input detected at '^' marker.", true},
		{"% Incomplete command.", true},
		{"% Ambiguous command:  \"sh i\"", true},
		{"Cisco IOS Software, C2960 Software", false},
		{"", false},
	}

	for _, tt := range tests {
		if got := isIOSCommandError(tt.output); got != tt.expected {
			t.Errorf("isIOSCommandError(%q) = %v, want %v", tt.output, got, tt.expected)
		}
	}
}

func TestIsSeparatorLine(t *testing.T) {
	if !isSeparatorLine("-----") {
		t.Error("dashes should be a separator")
	}
	if isSeparatorLine("--") {
		t.Error("short dash runs are not separators")
	}
	if isSeparatorLine("Gi0/1 --- up") {
		t.Error("data rows are not separators")
	}
}
