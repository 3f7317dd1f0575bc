package models

// Project is the collaborator input contract: metadata plus an ordered
// sequence of artifacts, owned by the external persistence layer.
type Project struct {
	ID          string
	Name        string
	Description string
	Artifacts   []Artifact
}

// DownloadName is the suggested filename for a successfully exported binary.
func (p Project) DownloadName() string {
	name := p.Name
	if name == "" {
		name = "export"
	}
	return name + ".pdf"
}
