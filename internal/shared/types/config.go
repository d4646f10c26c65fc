package types

// Config represents the application configuration that can be loaded from a file.
type Config struct {
	Command       string `json:"command" yaml:"command" toml:"command"`
	Resource      string `json:"resource" yaml:"resource" toml:"resource"`
	Months        int    `json:"months" yaml:"months" toml:"months"`
	ReferenceDate string `json:"reference_date" yaml:"reference_date" toml:"reference_date"`
	Timeout       string `json:"timeout" yaml:"timeout" toml:"timeout"`
	ReportName    string `json:"report_name" yaml:"report_name" toml:"report_name"`
	ReportType    string `json:"report_type" yaml:"report_type" toml:"report_type"`
	Dir           string `json:"dir" yaml:"dir" toml:"dir"`
}
