// Package partition groups inferred file operations into disjoint domains.
// Its invariant is the central correctness property of the planner: no file
// may belong to two domains.
package partition

import (
	"fmt"
	"sort"
	"strings"

	"github.com/AojdevStudio/cdev-sub004/pkg/models"
)

// PathClaim names the two domains contesting one path at plan time.
type PathClaim struct {
	// Path is the file claimed twice.
	Path string
	// DomainA is the domain that claimed the path first.
	DomainA string
	// DomainB is the later claimant.
	DomainB string
}

// ViolationError is the fatal plan-time error raised when partitioning would
// assign a file to two domains. It is never auto-resolved; the rule table or
// oracle output must be fixed instead. This is distinct from the
// execution-time conflicts reported by the validator, which concern what
// external agents actually touched.
type ViolationError struct {
	// Claims lists every doubly-claimed path.
	Claims []PathClaim
}

// Error formats the violation with every colliding path and both owners.
func (e *ViolationError) Error() string {
	parts := make([]string, len(e.Claims))
	for i, c := range e.Claims {
		parts[i] = fmt.Sprintf("%s claimed by both %q and %q", c.Path, c.DomainA, c.DomainB)
	}
	return "partition violation: " + strings.Join(parts, "; ")
}

// Partition groups file operations by domain tag, merging each group's file
// set and collecting every contributing requirement. Domains come out in
// first-appearance order of their operations.
//
// If any path lands in more than one domain the whole partition fails with a
// *ViolationError.
func Partition(ops []models.FileOperation) ([]*models.Domain, error) {
	byID := make(map[string]*models.Domain)
	var order []string

	// pathOwner tracks which domain first claimed each path.
	pathOwner := make(map[string]string)
	var claims []PathClaim

	for _, op := range ops {
		d, ok := byID[op.Domain]
		if !ok {
			d = &models.Domain{ID: op.Domain}
			byID[op.Domain] = d
			order = append(order, op.Domain)
		}

		if owner, claimed := pathOwner[op.Path]; claimed {
			if owner != op.Domain {
				claims = append(claims, PathClaim{Path: op.Path, DomainA: owner, DomainB: op.Domain})
			}
			// Same domain re-proposing a path is the expected outcome of
			// several requirements matching one rule; fold it in.
			addRequirement(d, op.SourceRequirementID)
			continue
		}
		pathOwner[op.Path] = op.Domain

		switch op.Kind {
		case models.OpModify:
			d.FilesToModify = append(d.FilesToModify, op.Path)
		default:
			d.FilesToCreate = append(d.FilesToCreate, op.Path)
		}
		addRequirement(d, op.SourceRequirementID)
	}

	if len(claims) > 0 {
		// Deduplicate and order claims so diagnostics are stable.
		claims = dedupeClaims(claims)
		return nil, &ViolationError{Claims: claims}
	}

	domains := make([]*models.Domain, 0, len(order))
	for _, id := range order {
		domains = append(domains, byID[id])
	}
	return domains, nil
}

// Verify re-checks the partition invariant over already-built domains:
// pairwise-disjoint file sets whose union covers exactly the given paths.
func Verify(domains []*models.Domain) error {
	pathOwner := make(map[string]string)
	var claims []PathClaim

	for _, d := range domains {
		for _, p := range d.AllFiles() {
			if owner, ok := pathOwner[p]; ok && owner != d.ID {
				claims = append(claims, PathClaim{Path: p, DomainA: owner, DomainB: d.ID})
				continue
			}
			pathOwner[p] = d.ID
		}
	}

	if len(claims) > 0 {
		return &ViolationError{Claims: dedupeClaims(claims)}
	}
	return nil
}

func addRequirement(d *models.Domain, reqID string) {
	for _, id := range d.RequirementIDs {
		if id == reqID {
			return
		}
	}
	d.RequirementIDs = append(d.RequirementIDs, reqID)
}

func dedupeClaims(claims []PathClaim) []PathClaim {
	seen := make(map[PathClaim]bool)
	var out []PathClaim
	for _, c := range claims {
		if !seen[c] {
			seen[c] = true
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	return out
}
