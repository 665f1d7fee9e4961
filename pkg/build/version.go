package build

import (
	"encoding/json"
	"fmt"
	"os"
)

var (
	// version is the built version.
	// Set with ldflags via -ldflags="-X github.com/radiantloop/notion-proxy/pkg/build.version=v{{.Version}}".
	version string
	// Version is the version reported in response metadata and user agents.
	Version string
	// UserAgent is the user agent used for HTTP requests
	UserAgent string
)

const (
	defaultVersion string = "1.0.0"        // Default version if not set by ldflags
	versionFile    string = "version.json" // Version file path
)

func init() {
	if version == "" {
		// This is being ran in development, try to grab the latest known version from the version.json file
		var err error
		version, err = readVersionFromFile()
		if err != nil {
			// Use the default version
			version = defaultVersion
		}
	}

	Version = version
	UserAgent = fmt.Sprintf("notion-proxy/%s", Version)
}

// versionJSON is used to read the local version.json file
type versionJSON struct {
	Version string `json:"version"`
}

// readVersionFromFile reads the version from the version.json file.
func readVersionFromFile() (string, error) {
	file, err := os.Open(versionFile)
	if err != nil {
		return "", err
	}
	defer file.Close()

	decoder := json.NewDecoder(file)
	var vJSON versionJSON
	err = decoder.Decode(&vJSON)
	if err != nil {
		return "", err
	}

	return vJSON.Version, nil
}
