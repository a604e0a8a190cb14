package holdRepo

import (
	"fmt"
	"strings"
)

// Redis key layout. Hold documents carry a physical TTL slightly beyond their
// logical expiry; the index and owner sets are cleaned up lazily on read.
func holdKey(salonID, date, holdID string) string {
	return fmt.Sprintf("hold:%s:%s:%s", salonID, date, holdID)
}

// indexKey is the per-(salon, date) set of hold ids.
func indexKey(salonID, date string) string {
	return fmt.Sprintf("holdidx:%s:%s", salonID, date)
}

// sessionKey points at the session's single live hold for a salon/date.
func sessionKey(sessionID, salonID, date string) string {
	return fmt.Sprintf("holdsess:%s:%s:%s", sessionID, salonID, date)
}

// ownerKey is the per-session set of "salon|date|holdID" members.
func ownerKey(sessionID string) string {
	return fmt.Sprintf("holdown:%s", sessionID)
}

func ownerMember(salonID, date, holdID string) string {
	return fmt.Sprintf("%s|%s|%s", salonID, date, holdID)
}

func parseOwnerMember(member string) (salonID, date, holdID string, ok bool) {
	parts := strings.SplitN(member, "|", 3)
	if len(parts) != 3 {
		return "", "", "", false
	}
	return parts[0], parts[1], parts[2], true
}

// changeChannel carries pub/sub notifications for a salon/date hold set.
func changeChannel(salonID, date string) string {
	return fmt.Sprintf("holdch:%s:%s", salonID, date)
}
