package annotations

import (
	"path/filepath"
	"sort"

	"github.com/spf13/afero"
	"github.com/turbokube/storemeta/pkg/catalog"
	"github.com/turbokube/storemeta/pkg/fsusage"
	"github.com/turbokube/storemeta/pkg/workflow"
	"go.uber.org/zap"
)

// AssemblerConfig is the explicit context an assembler reads from,
// nothing is picked up ambiently.
type AssemblerConfig struct {
	// Fs is used for dockerfile reads, OS fs when nil
	Fs afero.Fs
	// Data is the finished build's publish context
	Data *workflow.Data
	// Resolver resolves manifest digests per image
	Resolver catalog.Resolver
	// Sampler takes the filesystem usage snapshot, skipped when nil
	Sampler *fsusage.Sampler
	// Whitelist is the koji task annotations whitelist passthrough
	Whitelist []string
}

// Assembler builds the single annotation record of one publish cycle.
type Assembler struct {
	fs        afero.Fs
	data      *workflow.Data
	resolver  catalog.Resolver
	sampler   *fsusage.Sampler
	whitelist []string
}

func NewAssembler(config AssemblerConfig) *Assembler {
	fs := config.Fs
	if fs == nil {
		fs = afero.NewOsFs()
	}
	return &Assembler{
		fs:        fs,
		data:      config.Data,
		resolver:  config.Resolver,
		sampler:   config.Sampler,
		whitelist: config.Whitelist,
	}
}

// Assemble produces the annotation record. Later steps overwrite earlier
// keys; build-result annotations take final precedence. Assembly itself
// never fails, partial inputs reduce the record instead.
func (a *Assembler) Assemble() map[string]string {
	images := a.data.TagConf.Images()
	digests := catalog.ResolveDigests(images, a.resolver)

	annotations := map[string]string{
		"repositories":     encode(catalog.Classify(a.data.TagConf)),
		"digests":          encode(catalog.PullSpecs(images, digests)),
		"plugins-metadata": encode(a.pluginsMetadata()),
		"filesystem":       encode(a.filesystemUsage()),
	}

	if a.data.SourceBuild() {
		annotations["image-id"] = a.sourceImageID()
	} else {
		annotations["dockerfile"] = a.dockerfile()
		annotations["commit_id"] = a.data.CommitID
		a.applyBaseImage(annotations)
		annotations["image-id"] = a.data.ImageID
		annotations["parent_images"] = encode(a.parentImages())
	}

	a.applyMediaTypes(annotations)
	a.applyTarMetadata(annotations)
	a.applyRemoteSources(annotations)
	a.applyConfigMap(annotations)
	a.applyUpdates(annotations, a.data.Annotations)
	a.applyUpdates(annotations, a.data.BuildResult.Annotations)
	a.applyWhitelist(annotations)

	return annotations
}

type pluginsMetadata struct {
	Errors     map[string]string  `json:"errors"`
	Timestamps map[string]string  `json:"timestamps"`
	Durations  map[string]float64 `json:"durations"`
}

func (a *Assembler) pluginsMetadata() pluginsMetadata {
	meta := pluginsMetadata{
		Errors:     a.data.PluginsErrors,
		Timestamps: a.data.PluginsTimestamps,
		Durations:  a.data.PluginsDurations,
	}
	if meta.Errors == nil {
		meta.Errors = map[string]string{}
	}
	if meta.Timestamps == nil {
		meta.Timestamps = map[string]string{}
	}
	if meta.Durations == nil {
		meta.Durations = map[string]float64{}
	}
	return meta
}

// filesystemUsage substitutes an empty record on any sampling failure,
// a missing snapshot must not reduce the publish.
func (a *Assembler) filesystemUsage() any {
	if a.sampler == nil {
		return struct{}{}
	}
	usage, err := a.sampler.Usage()
	if err != nil {
		zap.L().Error("filesystem usage sampling", zap.Error(err))
		return struct{}{}
	}
	zap.L().Debug("filesystem usage", zap.Any("usage", usage))
	return usage
}

func (a *Assembler) sourceImageID() string {
	if a.data.SourceManifest == nil {
		return ""
	}
	return a.data.SourceManifest.Config.Digest.String()
}

func (a *Assembler) dockerfile() string {
	if a.data.DockerfilePath == "" {
		return ""
	}
	contents, err := afero.ReadFile(a.fs, a.data.DockerfilePath)
	if err != nil {
		zap.L().Warn("read dockerfile",
			zap.String("path", a.data.DockerfilePath),
			zap.Error(err),
		)
		return ""
	}
	return string(contents)
}

func (a *Assembler) applyBaseImage(annotations map[string]string) {
	base := a.data.BaseImage
	if base.Name != "" && !base.FromScratch {
		annotations["base-image-name"] = base.Name
		annotations["base-image-id"] = base.ID
	} else {
		annotations["base-image-name"] = ""
		annotations["base-image-id"] = ""
	}
}

func (a *Assembler) parentImages() map[string]string {
	parents := make(map[string]string, len(a.data.ParentImages)+1)
	for ref, pull := range a.data.ParentImages {
		parents[ref] = pull
	}
	if a.data.BaseImage.FromScratch {
		parents[workflow.ScratchFrom] = workflow.ScratchFrom
	}
	return parents
}

func (a *Assembler) applyMediaTypes(annotations map[string]string) {
	reported := a.data.Results.Exit.Strings(workflow.StageVerifyMediaTypes)
	if len(reported) == 0 {
		return
	}
	seen := make(map[string]struct{}, len(reported))
	mediaTypes := make([]string, 0, len(reported))
	for _, mediaType := range reported {
		if _, dup := seen[mediaType]; dup {
			continue
		}
		seen[mediaType] = struct{}{}
		mediaTypes = append(mediaTypes, mediaType)
	}
	sort.Strings(mediaTypes)
	annotations["media-types"] = encode(mediaTypes)
}

type tarMetadata struct {
	Size      int64  `json:"size"`
	MD5Sum    string `json:"md5sum"`
	SHA256Sum string `json:"sha256sum"`
	Filename  string `json:"filename"`
}

// applyTarMetadata is all-or-nothing, the consumer can't handle a
// record with null fields so a partial one is worse than none.
func (a *Assembler) applyTarMetadata(annotations map[string]string) {
	if len(a.data.ExportedImages) == 0 {
		return
	}
	last := a.data.ExportedImages[len(a.data.ExportedImages)-1]
	if last.Path == "" || last.Size == nil || last.MD5Sum == "" || last.SHA256Sum == "" {
		return
	}
	annotations["tar_metadata"] = encode(tarMetadata{
		Size:      *last.Size,
		MD5Sum:    last.MD5Sum,
		SHA256Sum: last.SHA256Sum,
		Filename:  filepath.Base(last.Path),
	})
}

type remoteSource struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// applyRemoteSources reduces each resolved remote source to name and url.
// Any malformed entry suppresses the key, it never fails the publish.
func (a *Assembler) applyRemoteSources(annotations map[string]string) {
	entries := a.data.Results.Pre.List(workflow.StageResolveRemoteSource)
	if len(entries) == 0 {
		return
	}
	sources := make([]remoteSource, 0, len(entries))
	for _, entry := range entries {
		m, ok := entry.(map[string]any)
		if !ok {
			zap.L().Debug("malformed remote source entry", zap.Any("entry", entry))
			return
		}
		name, nameOk := m["name"].(string)
		url, urlOk := m["url"].(string)
		if !nameOk || !urlOk {
			zap.L().Debug("remote source entry missing name or url", zap.Any("entry", entry))
			return
		}
		sources = append(sources, remoteSource{Name: name, URL: url})
	}
	annotations["remote_sources"] = encode(sources)
}

// applyConfigMap merges the upload stage's passthrough annotations,
// values arrive pre-serialized.
func (a *Assembler) applyConfigMap(annotations map[string]string) {
	for key, value := range a.data.Results.Post.Map(workflow.StageKojiUpload) {
		if s, ok := value.(string); ok {
			annotations[key] = s
		} else {
			annotations[key] = encode(value)
		}
	}
}

// applyUpdates merges a contributed annotation map, json-encoding every value.
func (a *Assembler) applyUpdates(annotations map[string]string, updates map[string]any) {
	for key, value := range updates {
		annotations[key] = encode(value)
	}
}

func (a *Assembler) applyWhitelist(annotations map[string]string) {
	if len(a.whitelist) == 0 {
		return
	}
	annotations["koji_task_annotations_whitelist"] = encode(a.whitelist)
}
