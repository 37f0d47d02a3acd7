package assets

// Stack queries layers top-down. Only a not-found error moves on to the
// next layer; invalid names and read failures stop the lookup.
type Stack struct {
	layers []AssetLoader
}

// NewStack returns the embedded layer, topped by basePath when set.
func NewStack(basePath string) (*Stack, error) {
	s := &Stack{}
	if basePath != "" {
		dir, err := OpenDir(basePath)
		if err != nil {
			return nil, err
		}
		s.layers = append(s.layers, dir)
	}
	s.layers = append(s.layers, Embedded())
	return s, nil
}

// Depth is the number of layers, 2 when a directory overrides the embedded set.
func (s *Stack) Depth() int {
	return len(s.layers)
}

func (s *Stack) LoadStyle(name string) (string, error) {
	return s.first(func(l AssetLoader) (string, error) { return l.LoadStyle(name) })
}

func (s *Stack) LoadTemplate(name string) (string, error) {
	return s.first(func(l AssetLoader) (string, error) { return l.LoadTemplate(name) })
}

func (s *Stack) first(load func(AssetLoader) (string, error)) (string, error) {
	var err error
	for _, l := range s.layers {
		var content string
		content, err = load(l)
		if err == nil || !notFound(err) {
			return content, err
		}
	}
	return "", err
}

var _ AssetLoader = (*Stack)(nil)
