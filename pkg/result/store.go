package result

// Store holds the results of one stage namespace keyed by stage key.
type Store map[string]Result

// Stores are the three stage-result namespaces of a build workflow.
type Stores struct {
	Pre  Store `json:"pre,omitempty"`
	Post Store `json:"post,omitempty"`
	Exit Store `json:"exit,omitempty"`
}

// Get returns the stage payload, or nil when the key is absent or the
// stored result is a failure. Callers never need to distinguish the two.
func (s Store) Get(key string) any {
	return s[key].Payload()
}

// Has reports whether the stage ran at all, regardless of outcome.
func (s Store) Has(key string) bool {
	_, ok := s[key]
	return ok
}

// Strings returns a string slice payload, tolerating the []any shape
// that json decoding produces. Non-string elements are dropped.
func (s Store) Strings(key string) []string {
	switch v := s.Get(key).(type) {
	case []string:
		return v
	case []any:
		out := make([]string, 0, len(v))
		for _, e := range v {
			if str, ok := e.(string); ok {
				out = append(out, str)
			}
		}
		return out
	}
	return nil
}

// Map returns a map payload, or nil for any other payload shape.
func (s Store) Map(key string) map[string]any {
	m, _ := s.Get(key).(map[string]any)
	return m
}

// List returns a list payload, or nil for any other payload shape.
func (s Store) List(key string) []any {
	l, _ := s.Get(key).([]any)
	return l
}
