package notify

import (
	"fmt"
	"regexp"
	"strconv"
)

// Deep-link paths served by the web frontend. The orphan reconciler parses
// these back, so composer and parser live side by side and cannot drift.
const (
	portalRootPattern  = "/portal/%s"
	portalFilesPattern = "/portal/%s/files"
	updatePattern      = "/portal/%s/updates/%d"
	replyFragment      = "#reply-%d"
)

var updateLinkRe = regexp.MustCompile(`/updates/(\d+)`)

// PortalLink returns the portal root path.
func PortalLink(portalUUID string) string {
	return fmt.Sprintf(portalRootPattern, portalUUID)
}

// PortalFilesLink returns the portal files view path.
func PortalFilesLink(portalUUID string) string {
	return fmt.Sprintf(portalFilesPattern, portalUUID)
}

// UpdateLink returns the deep link to a specific update. When replyID is
// non-zero the link carries a fragment addressing the reply inside the
// update's thread.
func UpdateLink(portalUUID string, updateID uint, replyID uint) string {
	link := fmt.Sprintf(updatePattern, portalUUID, updateID)
	if replyID != 0 {
		link += fmt.Sprintf(replyFragment, replyID)
	}
	return link
}

// ParseUpdateID extracts the update id embedded in an update deep link.
// ok is false for links that do not point at an update.
func ParseUpdateID(link string) (uint, bool) {
	m := updateLinkRe.FindStringSubmatch(link)
	if m == nil {
		return 0, false
	}
	id, err := strconv.ParseUint(m[1], 10, 64)
	if err != nil {
		return 0, false
	}
	return uint(id), true
}
