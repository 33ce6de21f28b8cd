package entities

// Inventory field names as they appear in the inventory file header
const (
	FieldName         = "Name"
	FieldManagementIP = "Management IP"
	FieldUsername     = "Username"
	FieldPassword     = "Password"
)

// InventoryRecord holds the connection attributes of one inventory device
type InventoryRecord struct {
	Name         string `yaml:"name" csv:"Name"`
	ManagementIP string `yaml:"management_ip" csv:"Management IP"`
	Username     string `yaml:"username" csv:"Username"`
	Password     string `yaml:"password" csv:"Password"`
}
