package v1

type PublishConfig struct {
	Status PublishConfigStatus `json:"-"`
	// Registry is where image manifest digests are resolved from
	Registry Registry `json:"registry,omitempty"`
	// Tracker is the build tracking service that receives the metadata
	Tracker Tracker `json:"tracker,omitempty"`
	// Koji holds passthrough settings for the koji integration
	Koji Koji `json:"koji,omitempty"`
	// Filesystem configures the usage snapshot included in annotations
	Filesystem Filesystem `json:"filesystem,omitempty"`
}

type PublishConfigStatus struct {
	Md5    string // config source md5
	Sha256 string // config source sha256
}

type Registry struct {
	// URI is the registry host, with or without scheme
	URI string `json:"uri,omitempty"`
	// Insecure allows plain http and unverified tls
	Insecure bool `json:"insecure,omitempty"`
	// Username and Password are optional basic credentials,
	// the default keychain is used when unset
	Username string `json:"username,omitempty"`
	Password string `json:"password,omitempty"`
}

type Tracker struct {
	// URL is the api base, for example https://tracker.example/apis/v1
	URL string `json:"url,omitempty"`
	// Namespace scopes pipeline run names
	Namespace string `json:"namespace,omitempty"`
	// Token is an optional bearer token
	Token string `json:"token,omitempty"`
}

type Koji struct {
	// Whitelist names annotations allowed into koji task output.
	// It is published as-is and does not filter the record.
	Whitelist []string `json:"whitelist,omitempty"`
}

type Filesystem struct {
	// Root is the directory to sample usage from, sampling is skipped when empty
	Root string `json:"root,omitempty"`
	// Ignore uses dockerignore-style patterns
	Ignore []string `json:"ignore,omitempty"`
}
