package config

import "flag"

var (
	flagConfig          = flag.String("config", "", "Path to config file")
	flagDebug           = flag.Bool("debug", false, "Enable debug logging")
	flagOutput          = flag.String("o", "", "Output SBM file")
	flagEncoding        = flag.String("encoding", "", "Material name encoding (e.g. utf-8, windows-1252, euc-kr)")
	flagDefaultMaterial = flag.String("default-material", "", "Material name for primitives without one")
	flagNoTangents      = flag.Bool("no-tangents", false, "Do not generate missing tangents")
	flagSaveConfig      = flag.String("save-config", "", "Write the effective config to this path and exit")
)

// ParseFlags parses command-line flags. Call this early in main().
func ParseFlags() {
	flag.Parse()
}

// ConfigPath returns the explicit config path if provided via --config flag.
func ConfigPath() string {
	return *flagConfig
}

// SaveConfigPath returns the path given via --save-config, if any.
func SaveConfigPath() string {
	return *flagSaveConfig
}

// InputPath returns the first positional argument, or "" if there is none.
func InputPath() string {
	return flag.Arg(0)
}

// applyFlags applies CLI flag overrides to the config.
func applyFlags(cfg *Config) {
	if *flagDebug {
		cfg.Logging.Level = "debug"
	}
	if *flagOutput != "" {
		cfg.Output.Path = *flagOutput
	}
	if *flagEncoding != "" {
		cfg.Output.NameEncoding = *flagEncoding
	}
	if *flagDefaultMaterial != "" {
		cfg.Import.DefaultMaterial = *flagDefaultMaterial
	}
	if *flagNoTangents {
		cfg.Import.GenerateTangents = false
	}
}
