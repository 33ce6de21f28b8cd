package services

import (
	"github.com/carlosrabelo/netcfg/core/domain/entities"
	"github.com/carlosrabelo/netcfg/core/domain/faults"
)

// BuildDescriptor maps an inventory record to connection parameters.
// The device type is always cisco_ios and the enable secret is the login password.
func BuildDescriptor(record entities.InventoryRecord) (entities.ConnectionDescriptor, error) {
	required := []struct {
		field string
		value string
	}{
		{entities.FieldManagementIP, record.ManagementIP},
		{entities.FieldUsername, record.Username},
		{entities.FieldPassword, record.Password},
	}
	for _, r := range required {
		if r.value == "" {
			return entities.ConnectionDescriptor{}, &faults.MissingFieldError{Device: record.Name, Field: r.field}
		}
	}

	return entities.ConnectionDescriptor{
		DeviceType: entities.DeviceTypeCiscoIOS,
		Host:       record.ManagementIP,
		Username:   record.Username,
		Password:   record.Password,
		Secret:     record.Password,
	}, nil
}
