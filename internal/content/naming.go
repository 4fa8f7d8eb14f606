package content

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"go-brandsite-app/internal/store"
)

// TimestampNaming is the default naming policy: a millisecond timestamp
// plus a short random suffix, optionally prefixed with the owning item's
// id. The suffix keeps two fields saved in the same millisecond apart; it
// does not make collisions impossible under concurrent saves, which is a
// known limit of the scheme.
func TimestampNaming(id store.Identity, fieldPath, itemID, ext string) string {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
	if itemID != "" {
		return fmt.Sprintf("%s-%d-%s.%s", itemID, time.Now().UnixMilli(), suffix, ext)
	}
	return fmt.Sprintf("%d-%s.%s", time.Now().UnixMilli(), suffix, ext)
}
