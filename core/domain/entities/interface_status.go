package entities

// InterfaceStatus is one row of "show ip interface brief"
type InterfaceStatus struct {
	Interface string
	IPAddress string
	Status    string
	Protocol  string
}
