package cfgloader

// Options holds configuration options for Load and MustLoad.
type Options struct {
	// Silent disables printing of the loaded config.
	Silent bool

	// Dir is the directory holding the ${ENVIRONMENT}.yaml files.
	Dir string
}

// Option is a functional option for configuring Load behavior.
type Option func(*Options)

// WithSilent disables config logging to stdout.
func WithSilent() Option {
	return func(o *Options) {
		o.Silent = true
	}
}

// WithConfigDir overrides the directory the config files are read from.
func WithConfigDir(dir string) Option {
	return func(o *Options) {
		o.Dir = dir
	}
}
