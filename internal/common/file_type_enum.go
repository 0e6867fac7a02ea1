package common

import "strings"

// AttachmentFileType represents what kind of file an attachment holds.
type AttachmentFileType string

const (
	AttachmentTypeImage    AttachmentFileType = "image"
	AttachmentTypeDocument AttachmentFileType = "document"
)

// String returns the string representation
func (ft AttachmentFileType) String() string {
	return string(ft)
}

// IsValid checks if the attachment file type is valid
func (ft AttachmentFileType) IsValid() bool {
	return ft == AttachmentTypeImage || ft == AttachmentTypeDocument
}

func DetectFileType(mimeType string) AttachmentFileType {
	lowerMimeType := strings.ToLower(mimeType)
	if strings.HasPrefix(lowerMimeType, "image/") {
		return AttachmentTypeImage
	}
	return AttachmentTypeDocument
}
