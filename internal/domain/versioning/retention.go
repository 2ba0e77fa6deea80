package versioning

// DefaultKeepLastN is the retention window used when nothing else is configured.
const DefaultKeepLastN = 10

// RetentionPolicy decides how many of the newest snapshots each entity keeps.
type RetentionPolicy struct {
	DefaultKeepLastN int                `yaml:"default_keep_last_n" json:"default_keep_last_n"`
	PerType          map[EntityType]int `yaml:"per_type" json:"per_type"`
}

// KeepFor returns the retention window for entityType, never below 1.
func (p RetentionPolicy) KeepFor(entityType EntityType) int {
	if n, ok := p.PerType[entityType]; ok && n > 0 {
		return n
	}
	if p.DefaultKeepLastN > 0 {
		return p.DefaultKeepLastN
	}
	return DefaultKeepLastN
}
