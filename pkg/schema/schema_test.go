package schema_test

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/turbokube/storemeta/pkg/schema"
)

func TestParseConfig(t *testing.T) {
	fs := afero.NewMemMapFs()
	afero.WriteFile(fs, "/etc/storemeta.yaml", []byte(`registry:
  uri: registry.example
  insecure: true
tracker:
  url: https://tracker.example/apis/v1
  namespace: builds
koji:
  whitelist:
    - remote_sources
filesystem:
  root: /var/lib/builds
  ignore:
    - "*.tmp"
`), 0644)
	restore := schema.Fs
	schema.Fs = fs
	defer func() { schema.Fs = restore }()

	config, err := schema.ParseConfig("/etc/storemeta.yaml")
	if err != nil {
		t.Fatal(err)
	}
	if config.Registry.URI != "registry.example" {
		t.Errorf("registry uri %s", config.Registry.URI)
	}
	if !config.Registry.Insecure {
		t.Errorf("insecure should be set")
	}
	if config.Tracker.Namespace != "builds" {
		t.Errorf("namespace %s", config.Tracker.Namespace)
	}
	if len(config.Koji.Whitelist) != 1 || config.Koji.Whitelist[0] != "remote_sources" {
		t.Errorf("whitelist %v", config.Koji.Whitelist)
	}
	if len(config.Filesystem.Ignore) != 1 {
		t.Errorf("ignore %v", config.Filesystem.Ignore)
	}
	if config.Status.Sha256 == "" || config.Status.Md5 == "" {
		t.Errorf("config source should be checksummed")
	}
}

func TestParseConfigUnknownField(t *testing.T) {
	fs := afero.NewMemMapFs()
	afero.WriteFile(fs, "/etc/storemeta.yaml", []byte("registryy:\n  uri: x\n"), 0644)
	restore := schema.Fs
	schema.Fs = fs
	defer func() { schema.Fs = restore }()

	if _, err := schema.ParseConfig("/etc/storemeta.yaml"); err == nil {
		t.Errorf("unknown field should fail strict decoding")
	}
}
