package types

import "time"

// CLIArgs represents the command-line arguments.
type CLIArgs struct {
	ConfigFile    string
	Command       string
	Resource      string
	Months        int
	ReferenceDate time.Time
	Timeout       time.Duration
	ReportName    string
	ReportType    string
	Dir           string
}

// ShowArgs represents the arguments of the show command.
type ShowArgs struct {
	Source   string
	Resource string
}
