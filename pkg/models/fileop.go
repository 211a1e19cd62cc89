package models

// OpKind distinguishes file creation from modification.
type OpKind string

const (
	// OpCreate indicates the file does not exist yet and will be created.
	OpCreate OpKind = "CREATE"
	// OpModify indicates an existing file will be changed.
	OpModify OpKind = "MODIFY"
)

// Valid returns true if the kind is a known value.
func (k OpKind) Valid() bool {
	switch k {
	case OpCreate, OpModify:
		return true
	default:
		return false
	}
}

// FileOperation is a single (path, operation) pair inferred from a
// requirement, tagged with the domain that proposed it.
type FileOperation struct {
	// Path is the repository-relative file path.
	Path string `json:"path"`
	// Kind is CREATE or MODIFY.
	Kind OpKind `json:"kind"`
	// Domain is the provisional domain tag assigned by the inferrer.
	Domain string `json:"domain"`
	// SourceRequirementID is the requirement this operation was inferred from.
	SourceRequirementID string `json:"source_requirement_id"`
}

// Domain is a disjoint cluster of file operations representing one coherent
// unit of work. The union of all Domain file sets across a plan is a
// partition: pairwise disjoint, covering every inferred file.
type Domain struct {
	// ID is the domain tag (e.g. "auth", "data", "ui").
	ID string `json:"id"`
	// FilesToCreate lists paths this domain will create, in first-seen order.
	FilesToCreate []string `json:"files_to_create"`
	// FilesToModify lists paths this domain will modify, in first-seen order.
	FilesToModify []string `json:"files_to_modify"`
	// RequirementIDs lists every requirement that contributed to this domain.
	RequirementIDs []string `json:"requirement_ids"`
}

// AllFiles returns the union of create and modify paths.
func (d *Domain) AllFiles() []string {
	files := make([]string, 0, len(d.FilesToCreate)+len(d.FilesToModify))
	files = append(files, d.FilesToCreate...)
	files = append(files, d.FilesToModify...)
	return files
}
