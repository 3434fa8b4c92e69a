package varray

import "golang.org/x/sys/unix"

// MAP_NORESERVE keeps large reservations from counting against overcommit
// accounting; pages are committed on first touch.
const mapFlags = unix.MAP_PRIVATE | unix.MAP_ANON | unix.MAP_NORESERVE
