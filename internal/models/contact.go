package models

// Contact is a single recipient row produced by the upstream collaborator.
// Row is the zero-based position in the source batch and acts as identity.
type Contact struct {
	Row   int    `json:"row" yaml:"-"`
	Name  string `json:"name" yaml:"name"`
	Phone string `json:"phone" yaml:"phone"`
	Email string `json:"email" yaml:"email"`
}

// FileBlob is an in-memory attachment.
type FileBlob struct {
	Filename string
	Data     []byte
}

// DispatchRequest is built fresh for every contact dispatch attempt. Subject
// and Attachments are only used by the email channel.
type DispatchRequest struct {
	Channel     Channel
	Content     string
	Destination string
	DisplayName string
	Subject     string
	Attachments []FileBlob
}

// UsableAttachments drops nameless and empty blobs, preserving order.
func UsableAttachments(blobs []FileBlob) []FileBlob {
	if len(blobs) == 0 {
		return nil
	}
	out := make([]FileBlob, 0, len(blobs))
	for _, blob := range blobs {
		if blob.Filename == "" || len(blob.Data) == 0 {
			continue
		}
		out = append(out, blob)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
