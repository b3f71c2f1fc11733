package model

import "errors"

var (
	ErrPendingWithoutBlob = errors.New("pending story must hold a local photo blob")
	ErrPendingWithURL     = errors.New("pending story must not hold a resolved photo URL")
	ErrSyncedWithBlob     = errors.New("synced story must not hold a local photo blob")
)
