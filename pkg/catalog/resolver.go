package catalog

import (
	"fmt"

	"github.com/google/go-containerregistry/pkg/name"
	"github.com/google/go-containerregistry/pkg/v1/remote"
	"github.com/google/go-containerregistry/pkg/v1/types"
	"github.com/turbokube/storemeta/pkg/registry"
	"go.uber.org/zap"
)

// Content-type versions of manifest representations, the identifiers the
// downstream annotation consumer understands.
const (
	VersionV1       = "v1"
	VersionV2       = "v2"
	VersionV2List   = "v2_list"
	VersionOCI      = "oci"
	VersionOCIIndex = "oci_index"
)

// Versions is the fixed iteration order for digest sets, keeping
// pull-spec output deterministic.
var Versions = []string{VersionV1, VersionV2, VersionV2List, VersionOCI, VersionOCIIndex}

// DigestSet maps content-type version to manifest digest for one image.
// Which versions are present varies per image.
type DigestSet map[string]string

// Resolver resolves the manifest digests of one image reference.
type Resolver interface {
	ResolveDigests(image string) (DigestSet, error)
}

// RemoteResolver resolves digests against the configured registry.
type RemoteResolver struct {
	Config *registry.RegistryConfig
}

func (r *RemoteResolver) ResolveDigests(image string) (DigestSet, error) {
	ref, err := name.ParseReference(image, r.Config.CraneOptions.Name...)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", image, err)
	}
	desc, err := remote.Get(ref, r.Config.CraneOptions.Remote...)
	if err != nil {
		return nil, fmt.Errorf("manifest %s: %w", ref.String(), err)
	}
	version := versionOf(desc.MediaType)
	if version == "" {
		zap.L().Debug("unrecognized manifest media type",
			zap.String("image", image),
			zap.String("mediaType", string(desc.MediaType)),
		)
		return DigestSet{}, nil
	}
	return DigestSet{version: desc.Digest.String()}, nil
}

func versionOf(mediaType types.MediaType) string {
	switch mediaType {
	case types.DockerManifestSchema1, types.DockerManifestSchema1Signed:
		return VersionV1
	case types.DockerManifestSchema2:
		return VersionV2
	case types.DockerManifestList:
		return VersionV2List
	case types.OCIManifestSchema1:
		return VersionOCI
	case types.OCIImageIndex:
		return VersionOCIIndex
	}
	return ""
}
