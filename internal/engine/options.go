package engine

// Options configures an engine at construction.
type Options struct {
	// ServiceName and DisplayName are exposed to scripts.
	ServiceName string
	DisplayName string

	// SearchPaths are used to resolve modules loaded by the script. Each entry is either a
	// directory or a template containing "?" which is replaced by the module name.
	SearchPaths []string

	// InitScript runs before the main script in the same environment.
	InitScript *Source
}

// Option mutates Options.
type Option func(*Options)

// WithServiceName sets the service and display names visible to scripts.
func WithServiceName(name, display string) Option {
	return func(o *Options) {
		o.ServiceName = name
		o.DisplayName = display
	}
}

// WithSearchPaths sets the module search paths.
func WithSearchPaths(paths ...string) Option {
	return func(o *Options) {
		o.SearchPaths = append([]string(nil), paths...)
	}
}

// WithInitScript sets a script that runs before the main script.
func WithInitScript(src Source) Option {
	return func(o *Options) {
		o.InitScript = &src
	}
}

// NewOptions applies opts over the defaults.
func NewOptions(opts ...Option) Options {
	var o Options
	for _, opt := range opts {
		opt(&o)
	}
	if o.DisplayName == "" {
		o.DisplayName = o.ServiceName
	}
	return o
}
