package collector

import "strings"

// controllerRule describes how to recognize one vendor's management
// controller in the raw sensor inventory and where its firmware version sits
// in the sensor string. Versions appear after firmwareMarker; trimSuffix, if
// present, is cut from the end of the extracted version.
type controllerRule struct {
	vendorMatch    string
	sensorMatch    string
	controller     string
	firmwareMarker string
	trimSuffix     string
}

// Rules are checked in order; the first vendor match wins. Unknown vendors
// and hosts without a matching sensor yield empty fields, never an error.
var controllerRules = []controllerRule{
	{
		vendorMatch:    "dell",
		sensorMatch:    "remote access controller",
		controller:     "iDRAC",
		firmwareMarker: "firmware ",
	},
	{
		vendorMatch:    "hewlett",
		sensorMatch:    "ilo",
		controller:     "iLO",
		firmwareMarker: " v",
		trimSuffix:     " ROM",
	},
	{
		vendorMatch:    "hpe",
		sensorMatch:    "ilo",
		controller:     "iLO",
		firmwareMarker: " v",
		trimSuffix:     " ROM",
	},
}

// DeriveController resolves the vendor-specific management controller name
// and firmware version from raw sensor strings. It is a pure function and
// tolerates missing sensors: any absent pattern degrades to empty fields.
func DeriveController(vendor string, sensors []string) (controller, firmware string) {
	vendorLower := strings.ToLower(vendor)
	for _, rule := range controllerRules {
		if !strings.Contains(vendorLower, rule.vendorMatch) {
			continue
		}
		for _, sensor := range sensors {
			if !strings.Contains(strings.ToLower(sensor), rule.sensorMatch) {
				continue
			}
			return rule.controller, extractFirmware(sensor, rule)
		}
		// Matching vendor but no controller sensor on this hardware
		// generation.
		return "", ""
	}
	return "", ""
}

func extractFirmware(sensor string, rule controllerRule) string {
	idx := strings.Index(strings.ToLower(sensor), rule.firmwareMarker)
	if idx < 0 {
		return ""
	}
	fw := strings.TrimSpace(sensor[idx+len(rule.firmwareMarker):])
	if rule.trimSuffix != "" {
		fw = strings.TrimSuffix(fw, rule.trimSuffix)
	}
	return strings.TrimSpace(fw)
}
