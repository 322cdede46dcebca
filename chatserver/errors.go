package chatserver

import "errors"

// ErrListenerClosed is returned by Server.ListenAndServe when its listener
// was closed deliberately (e.g. by Server.Close), distinguishing a clean
// shutdown from an accept failure.
var ErrListenerClosed = errors.New("chatserver: listener closed")
