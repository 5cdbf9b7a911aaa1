package admin

// Registry maps entity names to their presentation declarations. It is
// built explicitly at startup and handed to the engine; nothing registers
// itself as an import side effect.
type Registry struct {
	models map[string]ModelAdmin
}

func NewRegistry() *Registry {
	return &Registry{models: make(map[string]ModelAdmin)}
}

func (r *Registry) Register(name string, cfg ModelAdmin) {
	r.models[name] = cfg
}

func (r *Registry) Lookup(name string) (ModelAdmin, bool) {
	cfg, ok := r.models[name]
	return cfg, ok
}
