package config

// ConfigResolver looks keys up in its sources in order; the first source that
// has a key wins.
type ConfigResolver struct {
	sources []ConfigSource
}

func NewConfigResolver(sources ...ConfigSource) *ConfigResolver {
	return &ConfigResolver{sources: sources}
}

func (r *ConfigResolver) ResolveString(key, defaultValue string) string {
	return resolve(r.sources, func(s ConfigSource) (string, bool) { return s.GetString(key) }, defaultValue)
}

func (r *ConfigResolver) ResolveInt(key string, defaultValue int) int {
	return resolve(r.sources, func(s ConfigSource) (int, bool) { return s.GetInt(key) }, defaultValue)
}

func resolve[T any](sources []ConfigSource, get func(ConfigSource) (T, bool), defaultValue T) T {
	for _, source := range sources {
		if value, found := get(source); found {
			return value
		}
	}
	return defaultValue
}
