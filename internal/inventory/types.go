package inventory

// RowMeta carries transport-only context attached to a record while it
// travels from a collection task to the aggregator. It never reaches a
// report sink.
type RowMeta struct {
	TaskID    string `json:"-"`
	SessionID string `json:"-"`
}

// HostRecord is one report row for a single physical host. The schema is
// fixed; an empty string means the attribute was unavailable on that host,
// which is not an error.
type HostRecord struct {
	Endpoint string `json:"endpoint"`
	Hostname string `json:"hostname"`
	Version  string `json:"version"`
	Build    string `json:"build"`
	Cluster  string `json:"cluster"`

	Vendor      string `json:"vendor"`
	Model       string `json:"model"`
	MemoryGB    string `json:"memory_gb"`
	CPUModel    string `json:"cpu_model"`
	CPUSpeedMHz string `json:"cpu_speed_mhz"`
	CPUSockets  string `json:"cpu_sockets"`
	CPUCores    string `json:"cpu_cores"`

	BIOSVersion  string `json:"bios_version"`
	BIOSDate     string `json:"bios_date"`
	SerialNumber string `json:"serial_number"`

	NIC1 string `json:"nic1"`
	NIC2 string `json:"nic2"`
	HBA  string `json:"hba"`

	// Management controller fields are vendor-specific and stay empty for
	// hardware generations or vendors without a matching sensor.
	MgmtController string `json:"mgmt_controller"`
	MgmtFirmware   string `json:"mgmt_firmware"`

	MgmtIP1 string `json:"mgmt_ip1"`
	MgmtIP2 string `json:"mgmt_ip2"`
	MgmtIP3 string `json:"mgmt_ip3"`
	MgmtIP4 string `json:"mgmt_ip4"`

	LicenseKey    string `json:"license_key"`
	DomainStatus  string `json:"domain_status"`
	AdvancedFlags string `json:"advanced_flags"`
	Syslog        string `json:"syslog"`
	NTP           string `json:"ntp"`

	BootTime         string `json:"boot_time"`
	ConnectionState  string `json:"connection_state"`
	MultipathVersion string `json:"multipath_version"`

	Custom1 string `json:"custom1"`
	Custom2 string `json:"custom2"`
	Custom3 string `json:"custom3"`

	Meta RowMeta `json:"-"`
}

// NicRecord is one report row for a single network adapter on a host.
type NicRecord struct {
	Endpoint  string `json:"endpoint"`
	Hostname  string `json:"hostname"`
	Name      string `json:"name"`
	IP        string `json:"ip"`
	Netmask   string `json:"netmask"`
	MAC       string `json:"mac"`
	PortGroup string `json:"port_group"`
	VMotion   string `json:"vmotion"`
	MTU       string `json:"mtu"`
	Duplex    string `json:"duplex"`
	SpeedMb   string `json:"speed_mb"`
}
