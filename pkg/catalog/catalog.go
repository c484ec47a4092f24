package catalog

import (
	"github.com/distribution/reference"
	"github.com/turbokube/storemeta/pkg/workflow"
	"go.uber.org/zap"
)

// Repositories are the classified string renderings of the build's tags.
type Repositories struct {
	Primary  []string `json:"primary"`
	Unique   []string `json:"unique"`
	Floating []string `json:"floating"`
}

// Classify partitions the build's tagged references into the three
// repository groups. Input order is preserved and nothing is deduplicated,
// downstream consumers want the groups exactly as tagged.
func Classify(tags workflow.TagConf) Repositories {
	return Repositories{
		Primary:  copied(tags.Primary),
		Unique:   copied(tags.Unique),
		Floating: copied(tags.Floating),
	}
}

func copied(images []string) []string {
	out := make([]string, len(images))
	copy(out, images)
	return out
}

// PullSpec is one pullable manifest: reference parts plus the digest of
// one content-type representation.
type PullSpec struct {
	Registry   string `json:"registry"`
	Repository string `json:"repository"`
	Tag        string `json:"tag"`
	Digest     string `json:"digest"`
	Version    string `json:"version"`
}

// ResolveDigests queries the resolver for each image's manifest digests.
// Images with no reachable digest are omitted from the map, never an error.
func ResolveDigests(images []string, resolver Resolver) map[string]DigestSet {
	digests := make(map[string]DigestSet)
	for _, image := range images {
		set, err := resolver.ResolveDigests(image)
		if err != nil {
			zap.L().Debug("manifest digests unavailable",
				zap.String("image", image),
				zap.Error(err),
			)
			continue
		}
		if len(set) == 0 {
			continue
		}
		digests[image] = set
	}
	return digests
}

// PullSpecs emits one record per (image, content-type) pair found in the
// digest map. Images absent from the map and empty digest values are
// skipped. Output follows input image order, then the fixed version order.
func PullSpecs(images []string, digests map[string]DigestSet) []PullSpec {
	pullspecs := []PullSpec{}
	for _, image := range images {
		set, ok := digests[image]
		if !ok {
			continue
		}
		registry, repository, tag, err := splitImage(image)
		if err != nil {
			zap.L().Debug("unparseable image reference",
				zap.String("image", image),
				zap.Error(err),
			)
			continue
		}
		for _, version := range Versions {
			digest := set[version]
			if digest == "" {
				continue
			}
			pullspecs = append(pullspecs, PullSpec{
				Registry:   registry,
				Repository: repository,
				Tag:        tag,
				Digest:     digest,
				Version:    version,
			})
		}
	}
	return pullspecs
}

// splitImage renders an image reference's parts without normalizing in
// default registry or repository prefixes.
func splitImage(image string) (registry string, repository string, tag string, err error) {
	ref, err := reference.Parse(image)
	if err != nil {
		return "", "", "", err
	}
	if named, ok := ref.(reference.Named); ok {
		registry = reference.Domain(named)
		repository = reference.Path(named)
	}
	tag = "latest"
	if tagged, ok := ref.(reference.Tagged); ok {
		tag = tagged.Tag()
	}
	return registry, repository, tag, nil
}
