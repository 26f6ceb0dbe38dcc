// Package collector gathers per-host inventory rows from management
// endpoints. Field lookups are best-effort: only a failed session
// establishment fails an endpoint, everything else degrades to empty fields.
package collector

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/rs/zerolog"

	"github.com/go-tangra/go-tangra-fleetreport/internal/inventory"
	"github.com/go-tangra/go-tangra-fleetreport/internal/vim"
)

// Collector runs the primary per-host collection and the secondary network
// adapter pass against a management endpoint client.
type Collector struct {
	client vim.Client
	creds  vim.CredentialSource
	log    zerolog.Logger
}

// New builds a Collector.
func New(client vim.Client, creds vim.CredentialSource, log zerolog.Logger) *Collector {
	return &Collector{
		client: client,
		creds:  creds,
		log:    log.With().Str("component", "collector").Logger(),
	}
}

// Collect opens one session against the endpoint, emits one HostRecord per
// visible host sorted by hostname ascending, and releases the session on
// every exit path. A connect or enumeration failure fails the whole
// endpoint; per-field lookup failures do not.
func (c *Collector) Collect(ctx context.Context, endpoint string) ([]inventory.HostRecord, error) {
	sess, err := c.client.Connect(ctx, endpoint, c.creds.Resolve(endpoint))
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := sess.Close(); cerr != nil {
			c.log.Warn().Err(cerr).Str("endpoint", endpoint).Msg("session close failed")
		}
	}()

	hosts, err := sess.ListHosts(ctx)
	if err != nil {
		return nil, fmt.Errorf("enumerate hosts on %s: %w", endpoint, err)
	}

	// Local pre-sort: intra-endpoint order decides tie stability in the
	// final dataset.
	sort.Slice(hosts, func(i, j int) bool {
		return strings.ToLower(hosts[i].Name()) < strings.ToLower(hosts[j].Name())
	})

	rows := make([]inventory.HostRecord, 0, len(hosts))
	for _, h := range hosts {
		rows = append(rows, c.hostRecord(endpoint, h))
	}

	c.log.Debug().Str("endpoint", endpoint).Int("hosts", len(rows)).Msg("endpoint collected")
	return rows, nil
}

// hostRecord reads every schema field independently; a missing attribute
// leaves its field empty and collection proceeds to the next one.
func (c *Collector) hostRecord(endpoint string, h vim.Host) inventory.HostRecord {
	rec := inventory.HostRecord{
		Endpoint: endpoint,
		Hostname: h.Name(),

		Version: attr(h, "product.version"),
		Build:   attr(h, "product.build"),
		Cluster: attr(h, "cluster"),

		Vendor:      attr(h, "hardware.vendor"),
		Model:       attr(h, "hardware.model"),
		MemoryGB:    attr(h, "hardware.memoryGB"),
		CPUModel:    attr(h, "hardware.cpuModel"),
		CPUSpeedMHz: attr(h, "hardware.cpuMhz"),
		CPUSockets:  attr(h, "hardware.cpuSockets"),
		CPUCores:    attr(h, "hardware.cpuCores"),

		BIOSVersion:  attr(h, "bios.version"),
		BIOSDate:     attr(h, "bios.releaseDate"),
		SerialNumber: attr(h, "hardware.serialNumber"),

		NIC1: attr(h, "network.nic1"),
		NIC2: attr(h, "network.nic2"),
		HBA:  attr(h, "storage.hba1"),

		MgmtIP1: attr(h, "network.mgmtIPs.0"),
		MgmtIP2: attr(h, "network.mgmtIPs.1"),
		MgmtIP3: attr(h, "network.mgmtIPs.2"),
		MgmtIP4: attr(h, "network.mgmtIPs.3"),

		LicenseKey:    attr(h, "config.licenseKey"),
		DomainStatus:  attr(h, "config.domainStatus"),
		AdvancedFlags: attr(h, "config.advancedFlags"),
		Syslog:        attr(h, "config.syslog"),
		NTP:           attr(h, "config.ntp"),

		BootTime:         attr(h, "runtime.bootTime"),
		ConnectionState:  attr(h, "runtime.connectionState"),
		MultipathVersion: attr(h, "storage.multipathVersion"),

		Custom1: attr(h, "custom.field1"),
		Custom2: attr(h, "custom.field2"),
		Custom3: attr(h, "custom.field3"),
	}

	rec.MgmtController, rec.MgmtFirmware = DeriveController(rec.Vendor, h.Sensors())

	return rec
}

func attr(h vim.Host, path string) string {
	v, ok := h.Attr(path)
	if !ok {
		return ""
	}
	return v
}

// CollectNics runs the secondary network adapter pass: sequential, one
// endpoint at a time, after the parallel phase has fully completed. A failed
// endpoint is logged and skipped; its hosts contribute no rows. Output order
// is input endpoint order, then host enumeration order, then adapter order.
func (c *Collector) CollectNics(ctx context.Context, endpoints []string) []inventory.NicRecord {
	var out []inventory.NicRecord
	for _, endpoint := range endpoints {
		rows, err := c.collectEndpointNics(ctx, endpoint)
		if err != nil {
			c.log.Warn().Err(err).Str("endpoint", endpoint).Msg("nic collection skipped endpoint")
			continue
		}
		out = append(out, rows...)
	}
	return out
}

func (c *Collector) collectEndpointNics(ctx context.Context, endpoint string) ([]inventory.NicRecord, error) {
	sess, err := c.client.Connect(ctx, endpoint, c.creds.Resolve(endpoint))
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := sess.Close(); cerr != nil {
			c.log.Warn().Err(cerr).Str("endpoint", endpoint).Msg("session close failed")
		}
	}()

	hosts, err := sess.ListHosts(ctx)
	if err != nil {
		return nil, fmt.Errorf("enumerate hosts on %s: %w", endpoint, err)
	}

	var rows []inventory.NicRecord
	for _, h := range hosts {
		for _, nic := range h.Nics() {
			rows = append(rows, inventory.NicRecord{
				Endpoint:  endpoint,
				Hostname:  h.Name(),
				Name:      nic.Name,
				IP:        nic.IP,
				Netmask:   nic.Netmask,
				MAC:       nic.MAC,
				PortGroup: nic.PortGroup,
				VMotion:   fmt.Sprintf("%t", nic.VMotion),
				MTU:       itoa(nic.MTU),
				Duplex:    nic.Duplex,
				SpeedMb:   itoa(nic.SpeedMb),
			})
		}
	}
	return rows, nil
}

func itoa(n int) string {
	if n == 0 {
		return ""
	}
	return fmt.Sprintf("%d", n)
}
