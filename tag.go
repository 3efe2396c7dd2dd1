package executor

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
)

// ImageTag is a two-part image identifier. Name is derived from project
// identity; Digest is a content hash over the build inputs. A tag with an
// empty Digest refers to a pre-existing image by name alone.
type ImageTag struct {
	Name   string
	Digest string
}

func (t ImageTag) String() string {
	if t.Digest == "" {
		return t.Name
	}
	return t.Name + ":" + t.Digest
}

// tagSource is the canonical serialization the digest is computed over.
type tagSource struct {
	Image    string   `json:"image"`
	Build    []string `json:"build"`
	Revision string   `json:"revision"`
}

// UniqueImageTag computes the tag for an image built from spec on behalf of
// req. The name carries the project id so that no other project can reuse a
// cached image by matching the build content alone; the revision is folded
// into the digest so locally generated revisions do not collide.
func UniqueImageTag(req *TaskRequest, spec DockerSpec) ImageTag {
	payload, err := json.Marshal(tagSource{
		Image:    spec.Image,
		Build:    spec.Build,
		Revision: req.EffectiveRevision(),
	})
	if err != nil {
		// marshaling strings cannot fail
		panic(err)
	}

	sum := sha256.Sum256(payload)

	return ImageTag{
		Name:   fmt.Sprintf("digdag-project-%d", req.ProjectID),
		Digest: hex.EncodeToString(sum[:]),
	}
}

// EffectiveRevision returns the request's revision, generating and pinning a
// random one the first time when the request carries none. The pinned value
// stays stable for the lifetime of the request.
func (r *TaskRequest) EffectiveRevision() string {
	if r.Revision == "" {
		r.Revision = uuid.NewString()
	}
	return r.Revision
}
