package config

import (
	"time"

	"strykerscli/pkg/contracts"
)

// Application constants
const (
	AppName    = "Strykers Pulse"
	AppVersion = contracts.Version
	AppVendor  = "SoCal Strykers Data Innovation & Strategy"

	// EnvPrefix namespaces every environment variable, e.g. STRYKERS_SERVER_PORT.
	EnvPrefix = "STRYKERS"

	// File Paths (relative to executable)
	DefaultDataDir    = "data"
	DefaultReportsDir = "data/reports"
	DefaultAssetsDir  = "assets"
	DefaultLogsDir    = "logs"

	// FallbackInputName is the name users are told to give the CSV when
	// none of the candidates exist.
	FallbackInputName = "data.csv"

	// Output names
	ReportHTMLName = "strykers_ticket_report.html"
	ReportPDFName  = "strykers_ticket_report.pdf"
	ReportXLSXName = "strykers_ticket_report.xlsx"

	// Server
	DefaultPort             = 8080
	DefaultReadTimeout      = 15 * time.Second
	DefaultWriteTimeout     = 30 * time.Second
	DefaultShutdownTimeout  = 10 * time.Second
	DefaultRequestTimeout   = 20 * time.Second
	DefaultRateLimitRPS     = 20
	DefaultRateLimitBurst   = 40
	DefaultPDFRenderTimeout = 45 * time.Second
)

// DefaultInputCandidates are the file names the ticket export has shipped
// under, tried in order.
var DefaultInputCandidates = []string{
	"SoCal_Strykers_Secondary_Ticket_Sales_SecondaryTix_Transaction_Data.csv",
	"SoCal_Strykers_Secondary_Ticket_Sales_Secondary_Tix_Transaction_Data_.csv",
	"SoCal Strykers Secondary Ticket Sales(Secondary Tix Transaction Data).csv",
	FallbackInputName,
}

// DefaultAssetNames are the optional images embedded into the report.
var DefaultAssetNames = []string{
	"stadium_map.png",
	"atp_by_category.png",
	"timing_distribution.png",
	"opponent_atp.png",
}
