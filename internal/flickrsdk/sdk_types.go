package flickrsdk

import (
	"fmt"
	"runtime"

	"github.com/openmined/flickrsync/internal/version"
)

const (
	DefaultRESTURL    = "https://api.flickr.com/services/rest/"
	DefaultUploadURL  = "https://up.flickr.com/services/upload/"
	DefaultReplaceURL = "https://up.flickr.com/services/replace/"
	DefaultOAuthURL   = "https://www.flickr.com/services/oauth/"

	// DefaultUserID lets Flickr resolve the user from the oauth token.
	DefaultUserID = "me"
)

var UserAgent = fmt.Sprintf("flickrsync/%s (%s; %s; %s)", version.Version, version.Revision, runtime.GOOS, runtime.GOARCH)
