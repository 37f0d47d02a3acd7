package assets

// AssetLoader loads stylesheets and document shells by name, without
// extension. Missing assets yield ErrStyleNotFound or ErrTemplateNotFound.
type AssetLoader interface {
	LoadStyle(name string) (string, error)
	LoadTemplate(name string) (string, error)
}
