package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/carlosrabelo/netcfg/core/domain/entities"
	"github.com/carlosrabelo/netcfg/core/domain/ports"
	domain "github.com/carlosrabelo/netcfg/core/domain/services"
	"github.com/carlosrabelo/netcfg/core/infrastructure/config"
	"github.com/carlosrabelo/netcfg/core/infrastructure/inventory"
	"github.com/carlosrabelo/netcfg/core/infrastructure/logging"
)

// ErrDeviceNotFound is returned when the requested device is not in the inventory
var ErrDeviceNotFound = errors.New("device not found in inventory")

// ReportedError marks a failure whose message was already written to the output
type ReportedError struct {
	Err error
}

func (e *ReportedError) Error() string {
	return e.Err.Error()
}

func (e *ReportedError) Unwrap() error {
	return e.Err
}

// Request holds one CLI invocation
type Request struct {
	Device    string
	Inventory string
	Transport string

	Command string
	Config  string
	Brief   bool

	Interface string
	Action    string
	IP        string
	Mask      string
}

// DeviceApplicationService runs a single show, configuration or interface brief action against one device
type DeviceApplicationService struct {
	cfg        *config.Config
	sessions   *domain.SessionManager
	dispatcher *domain.Dispatcher
	out        io.Writer
}

// NewDeviceApplicationService creates a new instance of the device application service
func NewDeviceApplicationService(cfg *config.Config, opener ports.SessionOpener, out io.Writer) *DeviceApplicationService {
	sessions := domain.NewSessionManager(opener)
	return &DeviceApplicationService{
		cfg:        cfg,
		sessions:   sessions,
		dispatcher: domain.NewDispatcher(sessions),
		out:        out,
	}
}

// Run looks up the device and performs the action selected by req.
// Errors already printed to the output are wrapped in *ReportedError.
func (s *DeviceApplicationService) Run(ctx context.Context, req Request) error {
	path := req.Inventory
	if path == "" {
		path = s.cfg.Inventory
	}
	records, err := inventory.Read(path)
	if err != nil {
		return err
	}
	logging.Debugf("Loaded %d devices from inventory %s", len(records), path)

	record, ok := inventory.Lookup(records, req.Device)
	if !ok {
		s.printf("Device %s not found in inventory\n", req.Device)
		return &ReportedError{Err: fmt.Errorf("%w: %s", ErrDeviceNotFound, req.Device)}
	}

	desc, err := s.descriptor(record, req.Transport)
	if err != nil {
		return err
	}

	switch {
	case req.Command != "":
		return s.runCommand(ctx, req.Device, desc, req.Command)
	case req.Config != "":
		batch := splitBatch(req.Config)
		if len(batch) == 0 {
			return errors.New("--config contains no commands")
		}
		return s.runConfig(ctx, req.Device, desc, batch)
	case req.Interface != "":
		batch, err := domain.Render(domain.ParseAction(req.Action), req.Interface, req.IP, req.Mask)
		if err != nil {
			return err
		}
		return s.runConfig(ctx, req.Device, desc, batch)
	case req.Brief:
		return s.runBrief(ctx, desc)
	default:
		s.printf("Please specify --command or --config option\n")
		return nil
	}
}

func (s *DeviceApplicationService) descriptor(record entities.InventoryRecord, transport string) (entities.ConnectionDescriptor, error) {
	desc, err := domain.BuildDescriptor(record)
	if err != nil {
		return desc, err
	}
	desc = s.cfg.Apply(record.Name, desc)
	if transport != "" && transport != desc.TransportName() {
		desc.Transport = transport
		desc.Port = 0
	}
	return desc, nil
}

func (s *DeviceApplicationService) runCommand(ctx context.Context, name string, desc entities.ConnectionDescriptor, command string) error {
	session, err := s.sessions.Open(ctx, desc)
	if err != nil {
		logging.WithDevice(desc.Host).Error(err)
		s.printf("Failed to connect to %s\n", name)
		return &ReportedError{Err: err}
	}
	defer s.sessions.Close(session)

	output, err := s.dispatcher.SendShow(session, command)
	if err != nil {
		return err
	}
	s.printf("Output from %s:\n%s\n", name, output)
	return nil
}

func (s *DeviceApplicationService) runConfig(ctx context.Context, name string, desc entities.ConnectionDescriptor, batch []string) error {
	logging.WithOperation("config").WithField("device", name).Debugf("Sending %d configuration lines", len(batch))
	output, err := s.dispatcher.SendConfigBatch(ctx, desc, batch)
	s.printf("Configuration output from %s:\n", name)
	if err != nil {
		s.printf("%s\n", domain.Describe(domain.OpConfig, err))
		return &ReportedError{Err: err}
	}
	s.printf("%s\n", output)
	return nil
}

func (s *DeviceApplicationService) runBrief(ctx context.Context, desc entities.ConnectionDescriptor) error {
	output, err := s.dispatcher.GetInterfaceBrief(ctx, desc)
	if err != nil {
		s.printf("%s\n", domain.Describe(domain.OpBrief, err))
		return &ReportedError{Err: err}
	}
	s.printf("Raw Interface Brief Output:\n%s\n\n", output)

	rows, err := domain.ParseInterfaceBrief(desc.DeviceType, output)
	if err != nil {
		return err
	}
	s.printf("Formatted Interface Status:\n")
	for _, row := range rows {
		s.printf("Interface %s: IP: %s, Status: %s\n", row.Interface, row.IPAddress, row.Status)
	}
	return nil
}

func (s *DeviceApplicationService) printf(format string, args ...interface{}) {
	fmt.Fprintf(s.out, format, args...)
}

// splitBatch splits a comma separated command list, dropping blank entries
func splitBatch(config string) []string {
	var batch []string
	for _, part := range strings.Split(config, ",") {
		if part = strings.TrimSpace(part); part != "" {
			batch = append(batch, part)
		}
	}
	return batch
}
