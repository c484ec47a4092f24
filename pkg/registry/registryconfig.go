package registry

import (
	"strings"

	"github.com/google/go-containerregistry/pkg/authn"
	"github.com/google/go-containerregistry/pkg/crane"
	"github.com/google/go-containerregistry/pkg/name"
	"github.com/google/go-containerregistry/pkg/v1/remote"
	schema "github.com/turbokube/storemeta/pkg/schema/v1"
	"go.uber.org/zap"
)

type RegistryConfig struct {
	// Host is the registry host without scheme
	Host         string
	CraneOptions crane.Options
}

func New(config schema.Registry) (*RegistryConfig, error) {
	c := &RegistryConfig{
		Host: hostOf(config.URI),
	}
	// https://github.com/google/go-containerregistry/blob/v0.13.0/pkg/crane/options.go#L43
	c.CraneOptions = crane.Options{
		Remote: []remote.Option{
			remote.WithAuthFromKeychain(authn.DefaultKeychain),
		},
		Keychain: authn.DefaultKeychain,
	}

	if config.Username != "" {
		c.CraneOptions.Remote = []remote.Option{
			remote.WithAuth(&authn.Basic{
				Username: config.Username,
				Password: config.Password,
			}),
		}
	}

	if config.Insecure {
		zap.L().Debug("insecure access enabled", zap.String("registry", c.Host))
		c.CraneOptions.Name = append(c.CraneOptions.Name, name.Insecure)
		crane.Insecure(&c.CraneOptions)
	}

	return c, nil
}

// hostOf strips an optional scheme from a registry uri
func hostOf(uri string) string {
	if i := strings.Index(uri, "://"); i != -1 {
		uri = uri[i+3:]
	}
	return strings.TrimSuffix(uri, "/")
}
