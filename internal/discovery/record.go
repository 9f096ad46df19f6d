// internal/discovery/record.go
package discovery

// Record is one display found by the detector. Fields the display could
// not report keep their defaults.
type Record struct {
	Port            string `json:"port"`
	DisplayID       int    `json:"display_id"`
	VendorKey       string `json:"vendor_key"`
	Label           string `json:"label"`
	Power           string `json:"power"`
	Input           string `json:"input"`
	Serial          string `json:"serial"`
	ProtocolVersion string `json:"protocol_version"`
}

// Observer is called for every record as soon as it is found
type Observer func(Record)
