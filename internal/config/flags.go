package config

import "flag"

var (
	flagConfig     = flag.String("config", "", "Path to config file (.yaml or .toml)")
	flagDebug      = flag.Bool("debug", false, "Enable debug logging")
	flagLocale     = flag.String("locale", "", "Locale for number formatting in dumps")
	flagLegacy     = flag.Bool("legacy-bytelength", false, "Let buffer views without byteLength span the rest of the buffer")
	flagNoDataURIs = flag.Bool("no-data-uris", false, "Refuse embedded data: URIs")
	flagLogFile    = flag.String("log-file", "", "Also write logs to this file")
)

// ParseFlags parses command-line flags. Call this early in main().
func ParseFlags() {
	flag.Parse()
}

// ConfigPath returns the explicit config path if provided via --config flag.
func ConfigPath() string {
	return *flagConfig
}

// applyFlags applies CLI flag overrides to the config.
func applyFlags(cfg *Config) {
	if *flagDebug {
		cfg.Logging.Level = "debug"
	}
	if *flagLocale != "" {
		cfg.Dump.Locale = *flagLocale
	}
	if *flagLegacy {
		cfg.Loader.LegacyByteLength = true
	}
	if *flagNoDataURIs {
		cfg.Loader.AllowDataURIs = false
	}
	if *flagLogFile != "" {
		cfg.Logging.LogFile = *flagLogFile
	}
}
