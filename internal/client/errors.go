package client

import "errors"

var ErrSyncFailed = errors.New("sync failed")
