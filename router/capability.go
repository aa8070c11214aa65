package router

// Capability identifies an information source.
type Capability int

const (
	// Unresolved means no valid source was selected.
	Unresolved Capability = iota
	// FounderInfo answers questions about founders and employees.
	FounderInfo
	// BlogReferences searches company articles, case studies and references.
	BlogReferences
	// JobListings returns current job postings.
	JobListings
	// ServiceOffering describes the services offered, workflow and FAQs.
	ServiceOffering
)

// Capabilities lists every resolvable capability in catalog order.
var Capabilities = []Capability{FounderInfo, BlogReferences, JobListings, ServiceOffering}

func (c Capability) String() string {
	switch c {
	case FounderInfo:
		return "founder_info"
	case BlogReferences:
		return "blog_references"
	case JobListings:
		return "job_listings"
	case ServiceOffering:
		return "service_offering"
	default:
		return "unresolved"
	}
}

// Resolved reports whether c names a real source.
func (c Capability) Resolved() bool {
	return c != Unresolved
}
