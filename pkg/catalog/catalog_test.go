package catalog_test

import (
	"errors"
	"testing"

	"github.com/turbokube/storemeta/pkg/catalog"
	"github.com/turbokube/storemeta/pkg/workflow"
)

type fakeResolver map[string]catalog.DigestSet

func (f fakeResolver) ResolveDigests(image string) (catalog.DigestSet, error) {
	set, ok := f[image]
	if !ok {
		return nil, errors.New("not found")
	}
	return set, nil
}

func TestClassify(t *testing.T) {
	tags := workflow.TagConf{
		Primary:  []string{"r/app:1.0-1", "r/app:1.0-1"},
		Unique:   []string{"r/app:build-42"},
		Floating: []string{"r/app:latest", "r/app:stable"},
	}
	repos := catalog.Classify(tags)
	if len(repos.Primary) != 2 || repos.Primary[0] != "r/app:1.0-1" {
		t.Errorf("primary %v, duplicates and order must be preserved", repos.Primary)
	}
	if len(repos.Unique) != 1 {
		t.Errorf("unique %v", repos.Unique)
	}
	if len(repos.Floating) != 2 || repos.Floating[1] != "r/app:stable" {
		t.Errorf("floating %v", repos.Floating)
	}
	total := len(repos.Primary) + len(repos.Unique) + len(repos.Floating)
	if total != len(tags.Images()) {
		t.Errorf("groups must reproduce the input multiset, got %d of %d", total, len(tags.Images()))
	}

	empty := catalog.Classify(workflow.TagConf{})
	if empty.Primary == nil || empty.Unique == nil || empty.Floating == nil {
		t.Errorf("empty groups must still serialize as lists")
	}
}

func TestResolveDigests(t *testing.T) {
	resolver := fakeResolver{
		"registry/repo:v1": {catalog.VersionV2: "sha256:aa"},
		"registry/repo:v2": {},
	}
	digests := catalog.ResolveDigests([]string{
		"registry/repo:v1",
		"registry/repo:v2",
		"registry/gone:v1",
	}, resolver)
	if len(digests) != 1 {
		t.Errorf("unreachable and empty images must be omitted, got %v", digests)
	}
	if digests["registry/repo:v1"][catalog.VersionV2] != "sha256:aa" {
		t.Errorf("digests %v", digests)
	}
}

func TestPullSpecs(t *testing.T) {
	images := []string{"registry/repo:v1", "registry/other:x", "registry/multi:y"}
	digests := map[string]catalog.DigestSet{
		"registry/repo:v1": {catalog.VersionV2: "sha256:aa"},
		"registry/multi:y": {
			catalog.VersionOCIIndex: "sha256:cc",
			catalog.VersionV2:       "sha256:bb",
			catalog.VersionV1:       "",
		},
	}

	specs := catalog.PullSpecs(images, digests)
	if len(specs) != 3 {
		t.Fatalf("specs %v", specs)
	}
	if specs[0].Registry != "registry" || specs[0].Repository != "repo" ||
		specs[0].Tag != "v1" || specs[0].Digest != "sha256:aa" || specs[0].Version != "v2" {
		t.Errorf("spec %+v", specs[0])
	}
	// image order first, then fixed version order; empty digests skipped
	if specs[1].Version != "v2" || specs[1].Digest != "sha256:bb" {
		t.Errorf("spec %+v", specs[1])
	}
	if specs[2].Version != "oci_index" || specs[2].Digest != "sha256:cc" {
		t.Errorf("spec %+v", specs[2])
	}

	if got := catalog.PullSpecs([]string{"registry/gone:v1"}, digests); len(got) != 0 {
		t.Errorf("image absent from digest map must yield zero records, got %v", got)
	}
}

func TestPullSpecsUnqualified(t *testing.T) {
	digests := map[string]catalog.DigestSet{
		"repo": {catalog.VersionOCI: "sha256:dd"},
	}
	specs := catalog.PullSpecs([]string{"repo"}, digests)
	if len(specs) != 1 {
		t.Fatalf("specs %v", specs)
	}
	if specs[0].Registry != "" || specs[0].Repository != "repo" || specs[0].Tag != "latest" {
		t.Errorf("unqualified rendering %+v, no default registry may be normalized in", specs[0])
	}
}
