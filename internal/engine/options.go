package engine

// settings holds cross-component tuning shared by the engine constructors.
type settings struct {
	templatesDir string
}

// Option adjusts engine component construction.
type Option func(*settings)

// WithTemplatesDir points the component at a directory of prompt override
// files. An empty directory keeps the built-in prompts.
func WithTemplatesDir(dir string) Option {
	return func(s *settings) { s.templatesDir = dir }
}

func applyOptions(opts []Option) settings {
	var s settings
	for _, opt := range opts {
		opt(&s)
	}
	return s
}
