package services

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"
)

// Action selects which interface stanza Render produces
type Action int

const (
	ActionDelete Action = iota
	ActionCreate
)

func (a Action) String() string {
	if a == ActionCreate {
		return "create"
	}
	return "delete"
}

// ParseAction returns ActionCreate for "create" and ActionDelete for anything else
func ParseAction(s string) Action {
	if s == "create" {
		return ActionCreate
	}
	return ActionDelete
}

const (
	createInterfaceTemplate = `interface {{.Interface}}
 ip address {{.IPAddress}} {{.SubnetMask}}
 no shutdown
`
	deleteInterfaceTemplate = `interface {{.Interface}}
 no ip address
 shutdown
`
)

var interfaceTemplates = template.Must(
	template.Must(template.New(ActionCreate.String()).Parse(createInterfaceTemplate)).
		New(ActionDelete.String()).Parse(deleteInterfaceTemplate),
)

// interfaceParams is the data passed to the interface templates
type interfaceParams struct {
	Interface  string
	IPAddress  string
	SubnetMask string
}

// Render fills the interface template for action and returns its non-empty lines, trimmed, in
// order. Values are inserted as given.
func Render(action Action, iface, ip, mask string) ([]string, error) {
	var buf bytes.Buffer
	params := interfaceParams{Interface: iface, IPAddress: ip, SubnetMask: mask}
	if err := interfaceTemplates.ExecuteTemplate(&buf, action.String(), params); err != nil {
		return nil, fmt.Errorf("failed to render %s template: %w", action, err)
	}

	var lines []string
	for _, line := range strings.Split(buf.String(), "\n") {
		if line = strings.TrimSpace(line); line != "" {
			lines = append(lines, line)
		}
	}
	return lines, nil
}
