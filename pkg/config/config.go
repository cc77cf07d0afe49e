package config

import "time"

// Config is the resolved configuration of the packdrop CLI
type Config struct {
	Install   Install   `koanf:"install"`
	Interrupt Interrupt `koanf:"interrupt"`
	Queue     Queue     `koanf:"queue"`
	Metrics   Metrics   `koanf:"metrics"`
	UI        UI        `koanf:"ui"`
}

// Install drives the engine
type Install struct {
	// Path overrides the descriptor's install path when set
	Path string `koanf:"path"`

	WriteInstallationInformation bool   `koanf:"write_installation_information"`
	RecordFile                   string `koanf:"record_file"`
	BufferSize                   int    `koanf:"buffer_size" validate:"gt=0"`

	// Platform overrides runtime.GOOS for blockable handling
	Platform string `koanf:"platform"`
}

// Interrupt tunes the interrupt coordinator
type Interrupt struct {
	Timeout      time.Duration `koanf:"timeout" validate:"gte=0"`
	PollInterval time.Duration `koanf:"poll_interval" validate:"gt=0"`
}

// Queue locates the pending-moves manifest
type Queue struct {
	ManifestDir string `koanf:"manifest_dir"`
}

// Metrics configures the Prometheus textfile export
type Metrics struct {
	Textfile string `koanf:"textfile"`
}

// UI selects output format and unattended answers
type UI struct {
	Format    string `koanf:"format" validate:"omitempty,oneof=auto terminal term text plain json"`
	AssumeYes bool   `koanf:"assume_yes"`
}
