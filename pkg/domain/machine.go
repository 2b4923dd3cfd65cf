package domain

// Machine is a named configuration stored in a machine library.
type Machine struct {
	// Name identifies the machine in its library, without file extension.
	Name string `json:"name" yaml:"name"`

	// Description holds the free text body of the document, usually Markdown.
	Description string `json:"description,omitempty" yaml:"description,omitempty"`

	Config Config `json:"config" yaml:"config"`
}
