package notify

import "github.com/clientbridge/clientbridge/app/models"

// notificationTypes is the explicit, finite mapping from activity types to
// user-facing notification types. Activity types missing here (status
// changes, plain comments, deletions) intentionally produce no notification;
// the zero value of the lookup is the total default.
var notificationTypes = map[string]string{
	models.ActivityUpdateCreated:    models.NotificationNewUpdate,
	models.ActivityReplyCreated:     models.NotificationNewComment,
	models.ActivityFileUploaded:     models.NotificationNewFile,
	models.ActivityPortalUpdated:    models.NotificationPortalUpdate,
	models.ActivityDeadlineReminder: models.NotificationDeadlineReminder,
}

// NotificationTypeFor resolves an activity type to its notification type.
// ok is false for activity types that never notify.
func NotificationTypeFor(activityType string) (string, bool) {
	t, ok := notificationTypes[activityType]
	return t, ok
}
