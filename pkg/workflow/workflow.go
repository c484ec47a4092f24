package workflow

import (
	"encoding/json"
	"fmt"

	specsv1 "github.com/opencontainers/image-spec/specs-go/v1"
	"github.com/spf13/afero"
	"github.com/turbokube/storemeta/pkg/result"
)

// Stage keys whose results the publisher reads.
const (
	StageFetchSources        = "fetch_sources"
	StageKojiUpload          = "koji_upload"
	StageVerifyMediaTypes    = "verify_media_types"
	StageResolveRemoteSource = "resolve_remote_source"
)

// ScratchFrom is the sentinel base image of builds that start from nothing.
const ScratchFrom = "scratch"

// TagConf groups the tagged image references produced by the build.
type TagConf struct {
	// Primary tags are derived from stable build identity (usually NVR labels)
	Primary []string `json:"primary,omitempty"`
	// Unique tags are unpredictable per-build tags
	Unique []string `json:"unique,omitempty"`
	// Floating tags move between builds, latest-style
	Floating []string `json:"floating,omitempty"`
}

// Images returns all tagged references in group order, primary first.
func (t TagConf) Images() []string {
	images := make([]string, 0, len(t.Primary)+len(t.Unique)+len(t.Floating))
	images = append(images, t.Primary...)
	images = append(images, t.Unique...)
	images = append(images, t.Floating...)
	return images
}

// ExportedImage describes one exported artifact tarball. Fields are
// optional because exports can be recorded before checksumming finishes.
type ExportedImage struct {
	Path      string `json:"path,omitempty"`
	Size      *int64 `json:"size,omitempty"`
	MD5Sum    string `json:"md5sum,omitempty"`
	SHA256Sum string `json:"sha256sum,omitempty"`
}

// BaseImage is the resolved base of a full image build.
type BaseImage struct {
	Name        string `json:"name,omitempty"`
	ID          string `json:"id,omitempty"`
	FromScratch bool   `json:"from_scratch,omitempty"`
}

// BuildResult carries annotations and labels contributed by the build itself.
type BuildResult struct {
	Annotations map[string]any `json:"annotations,omitempty"`
	Labels      map[string]any `json:"labels,omitempty"`
}

// UserParams identify the pipeline run being annotated.
type UserParams struct {
	PipelineRunName string `json:"pipeline_run_name,omitempty"`
	Namespace       string `json:"namespace,omitempty"`
}

// Data is the publish context: everything the assemblers read about a
// finished build, loaded once and treated as immutable from then on.
type Data struct {
	TagConf           TagConf            `json:"tag_conf,omitempty"`
	Results           result.Stores      `json:"results,omitempty"`
	PluginsErrors     map[string]string  `json:"plugins_errors,omitempty"`
	PluginsTimestamps map[string]string  `json:"plugins_timestamps,omitempty"`
	PluginsDurations  map[string]float64 `json:"plugins_durations,omitempty"`
	ExportedImages    []ExportedImage    `json:"exported_images,omitempty"`
	DockerfilePath    string             `json:"dockerfile_path,omitempty"`
	CommitID          string             `json:"commit_id,omitempty"`
	ImageID           string             `json:"image_id,omitempty"`
	ParentImages      map[string]string  `json:"parent_images,omitempty"`
	BaseImage         BaseImage          `json:"base_image,omitempty"`
	// SourceManifest is set for source builds whose manifest was uploaded
	SourceManifest *specsv1.Manifest `json:"source_manifest,omitempty"`
	Labels         map[string]any    `json:"labels,omitempty"`
	Annotations    map[string]any    `json:"annotations,omitempty"`
	BuildResult    BuildResult       `json:"build_result,omitempty"`
	UserParams     UserParams        `json:"user_params,omitempty"`
}

// SourceBuild reports whether this run packaged sources instead of
// building an image, detected by the fetch sources stage having run.
func (d *Data) SourceBuild() bool {
	return d.Results.Pre.Has(StageFetchSources)
}

// Load reads workflow data from a json file.
func Load(fs afero.Fs, path string) (*Data, error) {
	buf, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, fmt.Errorf("read workflow data: %w", err)
	}
	var data Data
	if err := json.Unmarshal(buf, &data); err != nil {
		return nil, fmt.Errorf("decode workflow data %s: %w", path, err)
	}
	return &data, nil
}
