package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/carlosrabelo/netcfg/core/application/services"
	"github.com/carlosrabelo/netcfg/core/domain/ports"
	"github.com/carlosrabelo/netcfg/core/infrastructure/config"
	"github.com/carlosrabelo/netcfg/core/infrastructure/logging"
	"github.com/carlosrabelo/netcfg/core/infrastructure/transport"
)

var (
	version   = "dev"
	buildTime = "unknown"
)

type options struct {
	command   string
	config    string
	brief     bool
	iface     string
	action    string
	ip        string
	mask      string
	inventory string
	cfgFile   string
	transport string
	verbosity int
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := newRootCmd(transport.NewOpener(), os.Stdout).ExecuteContext(ctx)
	stop()
	if err != nil {
		var reported *services.ReportedError
		if !errors.As(err, &reported) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}

func newRootCmd(opener ports.SessionOpener, out io.Writer) *cobra.Command {
	var opts options

	cmd := &cobra.Command{
		Use:   "netcfg <device_name>",
		Short: "Send show and configuration commands to Cisco IOS devices",
		Long: `netcfg looks a device up in the inventory, opens an SSH or Telnet session,
enters privileged mode and runs a show command, a configuration batch or an
interface template against it.`,
		Example: `  netcfg R1 --command "show version"
  netcfg R1 --config "interface Gi0/1,description uplink"
  netcfg R1 --interface Gi0/1 --action create --ip 10.1.1.1 --mask 255.255.255.0
  netcfg R1 --brief`,
		Version:       fmt.Sprintf("%s (built %s)", version, buildTime),
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			logging.SetLogOutput(cmd.ErrOrStderr())
			return run(cmd.Context(), opener, out, args[0], opts)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&opts.command, "command", "", "Command to send to device")
	flags.StringVar(&opts.config, "config", "", "Configuration commands (comma-separated)")
	flags.BoolVar(&opts.brief, "brief", false, "Show the interface brief and a formatted status table")
	flags.StringVar(&opts.iface, "interface", "", "Interface to configure from the interface template")
	flags.StringVar(&opts.action, "action", "create", "Interface template action: create or delete")
	flags.StringVar(&opts.ip, "ip", "", "Interface IP address for the create action")
	flags.StringVar(&opts.mask, "mask", "", "Interface subnet mask for the create action")
	flags.StringVar(&opts.inventory, "inventory", "", "Inventory file, CSV or YAML (default from configuration, then \"inventory.csv\")")
	flags.StringVar(&opts.cfgFile, "config-file", "", "YAML configuration file (default: search ./, ~/.config/netcfg/, /etc/netcfg/)")
	flags.StringVar(&opts.transport, "transport", "", "Transport override: ssh or telnet")
	flags.IntVar(&opts.verbosity, "verbose", 0, "Verbosity level: 0=none, 1=debug logs, 2=raw device output, 3=debug+raw output")

	cmd.MarkFlagsMutuallyExclusive("command", "config", "interface", "brief")

	return cmd
}

func run(ctx context.Context, opener ports.SessionOpener, out io.Writer, device string, opts options) error {
	if opts.verbosity < 0 || opts.verbosity > 3 {
		return errors.New("--verbose must be 0, 1, 2, or 3")
	}
	switch opts.transport {
	case "", "ssh", "telnet":
	default:
		return fmt.Errorf("--transport must be ssh or telnet, got %q", opts.transport)
	}
	logging.SetVerbosity(opts.verbosity)

	cfg, err := config.Resolve(opts.cfgFile, opts.verbosity)
	if err != nil {
		return err
	}

	svc := services.NewDeviceApplicationService(cfg, opener, out)
	return svc.Run(ctx, services.Request{
		Device:    device,
		Inventory: opts.inventory,
		Transport: opts.transport,
		Command:   opts.command,
		Config:    opts.config,
		Brief:     opts.brief,
		Interface: opts.iface,
		Action:    opts.action,
		IP:        opts.ip,
		Mask:      opts.mask,
	})
}
