package exporter

// DefaultOutputDir is where exports land unless configured otherwise.
const DefaultOutputDir = "../data/"

type Config struct {
	// OutputDir is resolved against the working directory at export time.
	// It must already exist.
	OutputDir string `envconfig:"OUTPUT_DIR" default:"../data/"`
}

func DefaultConfig() Config {
	return Config{OutputDir: DefaultOutputDir}
}
