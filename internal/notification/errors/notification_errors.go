package notificationerrors

import (
	"net/http"

	"github.com/Amserna/admin/internal/shared/apperror"
)

var ErrNotificationNotFound = apperror.New(
	apperror.CodeNotFound,
	"notification not found or already read",
	http.StatusNotFound,
)
