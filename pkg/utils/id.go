package utils

import (
	"fmt"
	"strconv"

	"github.com/google/uuid"
	"github.com/zeebo/xxh3"
)

// sessionNamespace scopes session UUIDs generated by this module.
var sessionNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("urn:topology-fixtures:session"))

// SessionID returns a name-based UUID for the index-th session of a run.
// It consumes no random draws and is stable for a given seed.
func SessionID(seed int64, index int) string {
	name := strconv.FormatInt(seed, 10) + "/" + strconv.Itoa(index)
	return uuid.NewSHA1(sessionNamespace, []byte(name)).String()
}

// AssetID returns the identifier of the asset at a global enumeration index.
func AssetID(index int) string {
	return fmt.Sprintf("asset-%d", index)
}

// ContentID returns a short content-addressed identifier for data.
func ContentID(prefix string, data []byte) string {
	return fmt.Sprintf("%s-%016x", prefix, xxh3.Hash(data))
}
