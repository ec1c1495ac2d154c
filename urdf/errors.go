package urdf

import (
	"github.com/pkg/errors"
)

var (
	// ErrMalformedDocument is returned when a description document cannot be patched or parsed.
	ErrMalformedDocument = errors.New("malformed robot description")

	// ErrNoModelInformation is used when a description document is empty.
	ErrNoModelInformation = errors.New("no model information")
)

// NewMalformedDocumentError wraps ErrMalformedDocument with the reason the document was rejected.
func NewMalformedDocumentError(reason string) error {
	return errors.Wrap(ErrMalformedDocument, reason)
}

// NewUnsupportedJointTypeError returns an error indicating that a given joint type is not supported.
func NewUnsupportedJointTypeError(jointType string) error {
	return errors.Errorf("unsupported joint type detected: %q", jointType)
}

// NewUnknownLinkError is returned when a joint refers to a link the document never declares.
func NewUnknownLinkError(joint, link string) error {
	return errors.Errorf("joint %q refers to undeclared link %q", joint, link)
}

// NewDuplicateNameError is returned when two elements of the same kind share a name.
func NewDuplicateNameError(kind, name string) error {
	return errors.Errorf("duplicate %s name %q", kind, name)
}

// NewMissingLimitError is returned when a bounded joint has no limit element.
func NewMissingLimitError(joint string) error {
	return errors.Errorf("joint %q requires a limit element", joint)
}
