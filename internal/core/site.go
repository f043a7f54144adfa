package core

// Routes carries the relative or absolute paths a Site exposes for each
// operation it supports. A zero value means the operation isn't declared.
type Routes struct {
	Fetch  string
	Stream string
	Token  string
}

// Site is the configuration of one external data provider, loaded from
// sources.hcl. Sites are shared, immutable references: tokens mutate
// through the token store, never directly on a Site value.
type Site struct {
	Name    string
	Feature Capability // Producer, normally: a site is always a data source
	Format  Format
	BaseURL string
	Auth    Auth
	Routes  Routes
}

// CanFetch reports whether the site declares a fetch route.
func (s Site) CanFetch() bool { return s.Routes.Fetch != "" }

// CanStream reports whether the site declares a stream route.
func (s Site) CanStream() bool { return s.Routes.Stream != "" }
