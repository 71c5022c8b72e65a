package cache

// scopedKeyer prepends a fixed namespace to every key of another Keyer.
type scopedKeyer struct {
	Keyer
	prefix string
}

// NewScopedKeyer returns a Keyer whose keys all start with prefix, so that
// several deployments can share one Redis database. A nil inner keyer means
// the default one.
//
//	keyer := cache.NewScopedKeyer(nil, "staging:")
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	if prefix == "" {
		return inner
	}
	return scopedKeyer{Keyer: inner, prefix: prefix}
}

func (k scopedKeyer) HTTPKey(namespace, key string) string {
	return k.prefix + k.Keyer.HTTPKey(namespace, key)
}

func (k scopedKeyer) SummariesKey(source string) string {
	return k.prefix + k.Keyer.SummariesKey(source)
}

func (k scopedKeyer) DatasetKey(source string, year int) string {
	return k.prefix + k.Keyer.DatasetKey(source, year)
}

func (k scopedKeyer) ArtifactKey(datasetHash string, opts ArtifactKeyOpts) string {
	return k.prefix + k.Keyer.ArtifactKey(datasetHash, opts)
}
