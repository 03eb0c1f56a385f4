package session

import (
	"reflink/database"
	"reflink/utils"
)

// storeErr classifies a failed store call: timeouts and connectivity
// failures surface as StoreUnavailable, anything else as internal.
func storeErr(message string, err error) error {
	if database.IsUnavailable(err) {
		return utils.WrapAppError(utils.KindStoreUnavailable, "Entity store unavailable", err)
	}
	return utils.WrapAppError(utils.KindInternal, message, err)
}
