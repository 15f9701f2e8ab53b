package library

import (
	"media-streamer/internal/codec"
)

// Domain describes one media library: where uploads live, where output
// units go, how the playlist is published, and which codec policy applies.
// The video and music pipelines are the same code parameterized by two of
// these descriptors. Immutable after process start.
type Domain struct {
	// Name identifies the domain in routes, logs and metrics ("video",
	// "music").
	Name string

	// UploadDir is the tree walked for source files.
	UploadDir string
	// HLSDir is the root holding one output unit directory per slug.
	HLSDir string
	// PlaylistPath is the persisted playlist location.
	PlaylistPath string

	// HLSPrefix is the public URL prefix for generated streams.
	HLSPrefix string
	// OrigPrefix is the public URL prefix for original uploads.
	OrigPrefix string

	// Extensions is the accepted source extension set (lowercase, with
	// leading dot).
	Extensions map[string]bool

	// Strategy is the configured copy/transcode strategy.
	Strategy codec.Strategy
	// Policy makes the per-file codec decision.
	Policy codec.Policy

	// AudioOnly marks domains whose sources carry no video stream.
	AudioOnly bool
}

// Registry holds the configured domains in a fixed order.
type Registry struct {
	domains []*Domain
	byName  map[string]*Domain
}

// NewRegistry builds a Registry from the given domains.
func NewRegistry(domains ...*Domain) *Registry {
	r := &Registry{byName: make(map[string]*Domain, len(domains))}
	for _, d := range domains {
		r.domains = append(r.domains, d)
		r.byName[d.Name] = d
	}
	return r
}

// Get returns the domain with the given name, or nil when unknown.
func (r *Registry) Get(name string) *Domain {
	return r.byName[name]
}

// All returns the domains in registration order.
func (r *Registry) All() []*Domain {
	return r.domains
}

// Names returns the domain names in registration order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.domains))
	for _, d := range r.domains {
		names = append(names, d.Name)
	}
	return names
}
