package model

// Resource is a raw binary payload as received from or returned to a client.
type Resource struct {
	Checksum    string
	Content     []byte
	ContentType string
	Name        string
}

// VideoResource tags a Resource with the media slot it belongs to.
type VideoResource struct {
	Resource Resource
	Type     VideoMediaType
}

func NewVideoResource(r Resource, t VideoMediaType) VideoResource {
	return VideoResource{Resource: r, Type: t}
}
