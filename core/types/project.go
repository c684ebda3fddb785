// Package types - Restaurant evaluation data model
package types

// InputSource indicates where a batch of records came from
type InputSource string

const (
	SourceCLI    InputSource = "cli"
	SourceAPI    InputSource = "api"
	SourceUpload InputSource = "upload"
)

// String returns the string representation
func (s InputSource) String() string {
	return string(s)
}

// InputMetadata describes the origin of a batch
type InputMetadata struct {
	// Source is the channel the batch arrived through
	Source InputSource `json:"source"`

	// Name is the file name or caller-provided label
	Name string `json:"name,omitempty"`

	// Format is the tabular format (xlsx, csv, json)
	Format string `json:"format,omitempty"`
}
