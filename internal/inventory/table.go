package inventory

// Table is the uniform shape every report sink consumes: a named worksheet
// or file with a fixed header and string cells, empty string for null.
type Table struct {
	Name    string
	Columns []string
	Rows    [][]string
}

// hostColumns fixes the report column order for host rows. Producer and
// sinks share this declaration; nothing is derived from struct reflection.
var hostColumns = []struct {
	name string
	get  func(*HostRecord) string
}{
	{"Endpoint", func(r *HostRecord) string { return r.Endpoint }},
	{"Host", func(r *HostRecord) string { return r.Hostname }},
	{"Version", func(r *HostRecord) string { return r.Version }},
	{"Build", func(r *HostRecord) string { return r.Build }},
	{"Cluster", func(r *HostRecord) string { return r.Cluster }},
	{"Vendor", func(r *HostRecord) string { return r.Vendor }},
	{"Model", func(r *HostRecord) string { return r.Model }},
	{"Memory GB", func(r *HostRecord) string { return r.MemoryGB }},
	{"CPU Model", func(r *HostRecord) string { return r.CPUModel }},
	{"CPU MHz", func(r *HostRecord) string { return r.CPUSpeedMHz }},
	{"CPU Sockets", func(r *HostRecord) string { return r.CPUSockets }},
	{"CPU Cores", func(r *HostRecord) string { return r.CPUCores }},
	{"BIOS Version", func(r *HostRecord) string { return r.BIOSVersion }},
	{"BIOS Date", func(r *HostRecord) string { return r.BIOSDate }},
	{"Serial Number", func(r *HostRecord) string { return r.SerialNumber }},
	{"NIC 1", func(r *HostRecord) string { return r.NIC1 }},
	{"NIC 2", func(r *HostRecord) string { return r.NIC2 }},
	{"HBA", func(r *HostRecord) string { return r.HBA }},
	{"Mgmt Controller", func(r *HostRecord) string { return r.MgmtController }},
	{"Mgmt Firmware", func(r *HostRecord) string { return r.MgmtFirmware }},
	{"Mgmt IP 1", func(r *HostRecord) string { return r.MgmtIP1 }},
	{"Mgmt IP 2", func(r *HostRecord) string { return r.MgmtIP2 }},
	{"Mgmt IP 3", func(r *HostRecord) string { return r.MgmtIP3 }},
	{"Mgmt IP 4", func(r *HostRecord) string { return r.MgmtIP4 }},
	{"License Key", func(r *HostRecord) string { return r.LicenseKey }},
	{"Domain Status", func(r *HostRecord) string { return r.DomainStatus }},
	{"Advanced Flags", func(r *HostRecord) string { return r.AdvancedFlags }},
	{"Syslog", func(r *HostRecord) string { return r.Syslog }},
	{"NTP", func(r *HostRecord) string { return r.NTP }},
	{"Boot Time", func(r *HostRecord) string { return r.BootTime }},
	{"Connection State", func(r *HostRecord) string { return r.ConnectionState }},
	{"Multipath Version", func(r *HostRecord) string { return r.MultipathVersion }},
	{"Custom 1", func(r *HostRecord) string { return r.Custom1 }},
	{"Custom 2", func(r *HostRecord) string { return r.Custom2 }},
	{"Custom 3", func(r *HostRecord) string { return r.Custom3 }},
}

var nicColumns = []struct {
	name string
	get  func(*NicRecord) string
}{
	{"Endpoint", func(r *NicRecord) string { return r.Endpoint }},
	{"Host", func(r *NicRecord) string { return r.Hostname }},
	{"Adapter", func(r *NicRecord) string { return r.Name }},
	{"IP", func(r *NicRecord) string { return r.IP }},
	{"Netmask", func(r *NicRecord) string { return r.Netmask }},
	{"MAC", func(r *NicRecord) string { return r.MAC }},
	{"Port Group", func(r *NicRecord) string { return r.PortGroup }},
	{"vMotion", func(r *NicRecord) string { return r.VMotion }},
	{"MTU", func(r *NicRecord) string { return r.MTU }},
	{"Duplex", func(r *NicRecord) string { return r.Duplex }},
	{"Speed Mb", func(r *NicRecord) string { return r.SpeedMb }},
}

// HostTable projects host records into the fixed report table.
func HostTable(records []HostRecord) Table {
	t := Table{Name: "Hosts", Columns: make([]string, len(hostColumns))}
	for i, c := range hostColumns {
		t.Columns[i] = c.name
	}
	t.Rows = make([][]string, len(records))
	for i := range records {
		row := make([]string, len(hostColumns))
		for j, c := range hostColumns {
			row[j] = c.get(&records[i])
		}
		t.Rows[i] = row
	}
	return t
}

// NicTable projects adapter records into the fixed report table.
func NicTable(records []NicRecord) Table {
	t := Table{Name: "NICs", Columns: make([]string, len(nicColumns))}
	for i, c := range nicColumns {
		t.Columns[i] = c.name
	}
	t.Rows = make([][]string, len(records))
	for i := range records {
		row := make([]string, len(nicColumns))
		for j, c := range nicColumns {
			row[j] = c.get(&records[i])
		}
		t.Rows[i] = row
	}
	return t
}
